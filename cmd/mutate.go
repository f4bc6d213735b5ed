package cmd

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/dredd-go/dredd/cmd/internal/flags"
	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/compdb"
	"github.com/dredd-go/dredd/internal/configuration"
	"github.com/dredd-go/dredd/internal/coordinator"
	"github.com/dredd-go/dredd/internal/coordinator/workerpool"
	"github.com/dredd-go/dredd/internal/engine"
	"github.com/dredd-go/dredd/internal/execution"
	"github.com/dredd-go/dredd/internal/exclusion"
	"github.com/dredd-go/dredd/internal/guard"
	"github.com/dredd-go/dredd/internal/log"
	"github.com/dredd-go/dredd/internal/report"
)

type mutateCmd struct {
	cmd *cobra.Command
}

// newMutateCmd builds the `dredd mutate` subcommand: it discovers the
// backing compilation database, dispatches one job per entry to a bounded
// worker pool, and aggregates the results into a run report. frontend is
// the parser seam every job hands its compilation-database entry to; a nil
// frontend makes the command fail fast rather than panic mid-run.
func newMutateCmd(ctx context.Context, frontend astiface.Frontend) (*mutateCmd, error) {
	cmd := &cobra.Command{
		Use:   "mutate",
		Short: "Rewrite a translation unit with runtime-selectable mutations",
		Long: heredoc.Doc(`
			mutate reads a compilation database, rewrites every translation unit
			it lists (minus any excluded by --exclude-files) with dynamically
			selectable syntactic mutations, and writes a mutation-info JSON
			describing every mutation it introduced.
		`),
		RunE: func(_ *cobra.Command, _ []string) error {
			return runMutate(ctx, frontend)
		},
	}

	flagList := []*flags.Flag{
		{Name: "no-mutation-opts", CfgKey: configuration.MutateNoMutationOptsKey, DefaultV: false, Usage: "disable optimisation filters, emitting more mutants"},
		{Name: "only-track-mutant-coverage", CfgKey: configuration.MutateOnlyTrackCoverageKey, DefaultV: false, Usage: "emit coverage-tracking instrumentation instead of enable/disable checks"},
		{Name: "mutation-info-file", CfgKey: configuration.MutateMutationInfoFileKey, DefaultV: "mutation-info.json", Usage: "path the mutation-info JSON document is written to"},
		{Name: "exclude-files", CfgKey: configuration.MutateExcludeFilesKey, DefaultV: []string{}, Usage: "regex patterns of files to exclude from mutation"},
		{Name: "workers", CfgKey: configuration.MutateWorkersKey, DefaultV: 0, Usage: "number of concurrent translation units to process (0: one per CPU)"},
		{Name: "dump-asts", CfgKey: configuration.MutateDumpASTsKey, DefaultV: false, Usage: "log each translation unit's AST node kinds as it is walked"},
		{Name: "show-ast-node-types", CfgKey: configuration.MutateShowASTNodeTypesKey, DefaultV: false, Usage: "annotate dumped AST nodes with their node type"},
		{Name: "compile-commands", CfgKey: configuration.MutateCompileCommandsKey, DefaultV: "compile_commands.json", Usage: "path to the JSON compilation database"},
	}
	for _, f := range flagList {
		if err := flags.Set(cmd, f); err != nil {
			return nil, err
		}
	}

	return &mutateCmd{cmd: cmd}, nil
}

func runMutate(ctx context.Context, frontend astiface.Frontend) error {
	if frontend == nil {
		return errors.New("mutate: no parser frontend linked into this build")
	}

	start := time.Now()

	cmds, err := compdb.Load(configuration.Get[string](configuration.MutateCompileCommandsKey))
	if err != nil {
		return err
	}

	rules, err := exclusion.New()
	if err != nil {
		return err
	}

	opts := engine.Options{
		Options: guard.Options{
			OptimiseMutations: !configuration.Get[bool](configuration.MutateNoMutationOptsKey),
			OnlyTrackCoverage: configuration.Get[bool](configuration.MutateOnlyTrackCoverageKey),
			DumpASTs:          configuration.Get[bool](configuration.MutateDumpASTsKey),
			ShowASTNodeTypes:  configuration.Get[bool](configuration.MutateShowASTNodeTypesKey),
		},
		MutationInfoFile: configuration.Get[string](configuration.MutateMutationInfoFileKey),
	}

	fileGuard := coordinator.NewFileGuard()
	idCounter := coordinator.NewIDCounter()
	rep := report.New()

	var parseFailed, rewriteFailed int32

	integrationMode := false
	size := workerpool.Size(configuration.Get[int](configuration.MutateWorkersKey), integrationMode)
	pool := workerpool.New("mutate", size)
	pool.Start()

	for _, c := range cmds {
		if ctx.Err() != nil {
			break
		}
		if rules.IsFileExcluded(c.AbsFile()) {
			continue
		}
		pool.AppendJob(&mutateJob{
			cmd:          c,
			frontend:     frontend,
			opts:         opts,
			fileGuard:    fileGuard,
			alloc:        idCounter,
			rep:          rep,
			parseFailed:  &parseFailed,
			rewriteFailed: &rewriteFailed,
		})
	}
	pool.Stop()

	rep.Do(time.Since(start))

	if opts.MutationInfoFile != "" {
		if err := rep.WriteMutationInfoFile(opts.MutationInfoFile); err != nil {
			return err
		}
	}

	if atomic.LoadInt32(&rewriteFailed) != 0 {
		return execution.NewExitErr(execution.RewriteFailures)
	}
	if atomic.LoadInt32(&parseFailed) != 0 {
		return execution.NewExitErr(execution.ParseFailures)
	}

	return nil
}

// mutateJob processes one compilation database entry end to end: parse,
// engine pipeline, in-place rewrite of the source file, and reporting.
type mutateJob struct {
	cmd           compdb.Command
	frontend      astiface.Frontend
	opts          engine.Options
	fileGuard     *coordinator.FileGuard
	alloc         *coordinator.IDCounter
	rep           *report.Report
	parseFailed   *int32
	rewriteFailed *int32
}

func (j *mutateJob) Start(_ *workerpool.Worker) {
	file := j.cmd.AbsFile()

	if !j.fileGuard.Visit(file) {
		log.Infoln(coordinator.RepeatVisitWarning(file))

		return
	}

	tu, err := j.frontend.Parse(j.cmd.Directory, file, j.cmd.Args())
	if err != nil {
		log.Errorf("parsing %s: %s\n", file, err)
		atomic.StoreInt32(j.parseFailed, 1)

		return
	}

	res, err := engine.ProcessFile(tu, j.opts, j.alloc)
	if err != nil {
		log.Errorf("rewriting %s: %s\n", file, err)
		atomic.StoreInt32(j.rewriteFailed, 1)

		return
	}

	if res.Skipped {
		atomic.StoreInt32(j.parseFailed, 1)
		j.rep.Add(res)

		return
	}

	if err := os.WriteFile(file, []byte(res.Source), 0o644); err != nil {
		log.Errorf("writing %s: %s\n", file, err)
		atomic.StoreInt32(j.rewriteFailed, 1)

		return
	}

	j.rep.Add(res)
}
