package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"

	"quiz-data-client/internal/quiz"
	"quiz-data-client/pkg/config"
	"quiz-data-client/pkg/httpclient"
	"quiz-data-client/pkg/logger"
	"quiz-data-client/pkg/metrics"
)

const usage = `usage: quizctl [flags] <command> [args]

commands:
  quizzes                               list quizzes
  quiz <id>                             show one quiz
  create <quiz.json>                    create a quiz
  save <quiz.json>                      replace a quiz by its id
  add-question <quizId> <question.json> append a question
  update-question <quizId> <question.json>
  delete-question <quizId> <questionId>
  save-attempt <quizId> <answers.json>  grade answers and record an attempt
  attempts [-quiz <id>]                 list attempts
  clear-attempts                        delete every attempt

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	raw := config.LoadRaw()

	fs := flag.NewFlagSet("quizctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&raw.APIURL, "api", raw.APIURL, "quiz API base URL")
	fs.StringVar(&raw.Timeout, "timeout", raw.Timeout, "per-request timeout (duration or milliseconds)")
	fs.StringVar(&raw.LogLevel, "log-level", raw.LogLevel, "log level (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, err := raw.Resolve()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	log := logger.NewWithWriter("quizctl", cfg.LogLevel, stderr)
	reg := prometheus.NewRegistry()
	hc := httpclient.New(cfg.APIURL, cfg.Timeout,
		httpclient.WithLogger(log),
		httpclient.WithMetrics(metrics.NewMetrics("client", reg)),
	)
	cli := &cli{
		svc:    quiz.NewService(quiz.NewRepository(hc), log),
		stdout: stdout,
	}

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	handler, ok := cli.commands()[cmd]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	start := time.Now()
	defer logRequests(log, reg)
	if err := handler(ctx, cmdArgs); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log.Entry().WithField("command", cmd).WithField("duration", time.Since(start).String()).Debug("command done")
	return 0
}

// logRequests writes one debug line per method, route and outcome the
// command's API calls produced.
func logRequests(log *logger.Logger, reg prometheus.Gatherer) {
	if !log.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	families, err := reg.Gather()
	if err != nil {
		log.Entry().WithError(err).Debug("gather client metrics")
		return
	}
	for _, family := range families {
		if family.GetName() != "quiz_client_requests_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			log.Entry().WithFields(labelFields(m)).WithField("count", int(m.GetCounter().GetValue())).Debug("client requests")
		}
	}
}

func labelFields(m *dto.Metric) logrus.Fields {
	fields := logrus.Fields{}
	for _, label := range m.GetLabel() {
		fields[label.GetName()] = label.GetValue()
	}
	return fields
}
