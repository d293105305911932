package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"freckers/communication"
	"freckers/communication/server"
	"freckers/engine"
	"freckers/experiments"
	"freckers/experiments/metrics"
	"freckers/game"
	"freckers/meta"
	"freckers/render"
	"freckers/searcher"
	"freckers/searcher/agent"
)

type options struct {
	mode      string
	moveTime  time.Duration
	maxDepth  int
	seed      uint64
	addr      string
	config    string
	color     string
	opponent  string
	evaluator string
	tieBreak  string
	out       string
	quiet     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.mode, "mode", "selfplay", "selfplay, serve, experiment or throughput")
	flag.DurationVar(&opts.moveTime, "move-time", meta.MaxMoveTime, "Search time per move")
	flag.IntVar(&opts.maxDepth, "max-depth", meta.MaxSearchDepth, "Maximum search depth")
	flag.Uint64Var(&opts.seed, "seed", 0, "Seed for random tie breaks and baseline agents (0 picks one)")
	flag.StringVar(&opts.addr, "addr", ":8080", "Listen address in serve mode")
	flag.StringVar(&opts.config, "config", "baseline", "Experiment config: a YAML file or one of "+strings.Join(experiments.BuiltinNames(), ", "))
	flag.StringVar(&opts.color, "color", "red", "Color played by the search agent in selfplay")
	flag.StringVar(&opts.opponent, "opponent", "greedy", "Selfplay opponent: search, greedy, random or an agent server URL")
	flag.StringVar(&opts.evaluator, "evaluator", "progress", "Evaluation function: progress, mobility or greedy")
	flag.StringVar(&opts.tieBreak, "tie-break", "first", "Root tie break: first or random")
	flag.StringVar(&opts.out, "out", "results", "Directory for experiment results")
	flag.BoolVar(&opts.quiet, "quiet", false, "Do not print the board in selfplay")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	configureLogging(*logLevel)
	if opts.seed == 0 {
		opts.seed = frand.Uint64n(1<<63) + 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch opts.mode {
	case "selfplay":
		err = runSelfplay(ctx, opts)
	case "serve":
		err = runServer(ctx, opts)
	case "experiment":
		err = runExperiment(ctx, opts)
	case "throughput":
		err = runThroughput(ctx, opts)
	default:
		err = fmt.Errorf("unknown mode %q", opts.mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msgf("%s failed", opts.mode)
	}
}

func configureLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Err(err).Msg("unknown log level, using info")
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func newSearchAgent(opts options, seed uint64) (agent.Agent, error) {
	evaluate, err := game.EvaluatorByName(opts.evaluator)
	if err != nil {
		return nil, err
	}
	searchOptions := []searcher.Option{
		searcher.WithMaxDepth(opts.maxDepth),
		searcher.WithEvaluationFn(evaluate),
		searcher.WithSeed(seed),
		searcher.WithMetrics(),
	}
	switch opts.tieBreak {
	case searcher.TieBreakFirst.String():
	case searcher.TieBreakRandom.String():
		searchOptions = append(searchOptions, searcher.WithTieBreak(searcher.TieBreakRandom))
	default:
		return nil, fmt.Errorf("unknown tie break %q", opts.tieBreak)
	}
	return agent.NewSearchAgent(searcher.NewAlphaBeta(searchOptions...), opts.moveTime), nil
}

func newOpponent(opts options) (agent.Agent, error) {
	seed := opts.seed + 1
	switch {
	case opts.opponent == "search":
		return newSearchAgent(opts, seed)
	case opts.opponent == "greedy":
		return agent.NewGreedyAgent(nil, 0, seed), nil
	case opts.opponent == "random":
		return agent.NewRandomAgent(seed), nil
	case strings.HasPrefix(opts.opponent, "http://"), strings.HasPrefix(opts.opponent, "https://"):
		return engine.NewRemoteAgent(opts.opponent, http.DefaultClient), nil
	default:
		return nil, fmt.Errorf("unknown opponent %q", opts.opponent)
	}
}

func runSelfplay(ctx context.Context, opts options) error {
	self, err := newSearchAgent(opts, opts.seed)
	if err != nil {
		return err
	}
	opponent, err := newOpponent(opts)
	if err != nil {
		return err
	}

	red, blue := self, opponent
	switch strings.ToLower(opts.color) {
	case "red":
	case "blue":
		red, blue = opponent, self
	default:
		return fmt.Errorf("unknown color %q", opts.color)
	}

	engineOptions := []engine.Option{}
	if !opts.quiet {
		engineOptions = append(engineOptions, engine.WithObserver(printer(render.New(os.Stdout))))
	}
	e := engine.LocalEngine(red, blue, engineOptions...)

	log.Info().Uint64("seed", opts.seed).Msgf("starting selfplay against %s", opts.opponent)
	result, gameMetric, _ := e.Run(ctx)
	log.Info().Dur("duration", gameMetric.Duration).Msgf("%v", result)
	return ctx.Err()
}

// printer renders every accepted action and the board it produced.
func printer(r *render.Renderer) engine.Observer {
	var last game.PlayerColor
	return func(update communication.GameUpdate) {
		switch update.Type {
		case communication.TurnEnd:
			last = game.PlayerColor(update.Player)
			if update.Action == nil {
				return
			}
			action, err := communication.DecodeAction(*update.Action)
			if err != nil {
				log.Warn().Err(err).Msg("failed to decode action")
				return
			}
			_ = r.Line(last, "plays %v", action)
		case communication.BoardUpdate:
			b, err := communication.DecodeBoard(update.Board, last.Opponent(), update.TurnID)
			if err != nil {
				log.Warn().Err(err).Msg("failed to decode board")
				return
			}
			_ = r.Board(b)
		case communication.GameEnd:
			if update.Winner == nil || *update.Winner == 0 {
				fmt.Println("draw")
				return
			}
			_ = r.Line(game.PlayerColor(*update.Winner), "wins")
		}
	}
}

func runServer(ctx context.Context, opts options) error {
	self, err := newSearchAgent(opts, opts.seed)
	if err != nil {
		return err
	}
	return server.NewAgentServer(self).ListenAndServe(ctx, opts.addr)
}

func loadExperiment(name string) (experiments.Config, error) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return experiments.LoadConfig(name)
	}
	return experiments.Builtin(name)
}

func runExperiment(ctx context.Context, opts options) error {
	config, err := loadExperiment(opts.config)
	if err != nil {
		return err
	}
	dir, _, err := experiments.Run(ctx, config, opts.out)
	if err != nil {
		return err
	}
	log.Info().Msgf("results stored in %s", dir)
	return nil
}

func runThroughput(ctx context.Context, opts options) error {
	config, err := loadExperiment(opts.config)
	if err != nil {
		return err
	}
	var configs []metrics.AgentConfig
	for _, agentConfig := range config.Agents {
		if agentConfig.Kind == metrics.KindSearch {
			configs = append(configs, agentConfig)
		}
	}
	dir, _, err := experiments.RunThroughput(ctx, configs, experiments.SamplePositions(20, opts.seed), opts.out)
	if err != nil {
		return err
	}
	log.Info().Msgf("results stored in %s", dir)
	return nil
}
