package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/file-butler/go/internal/command"
	"github.com/file-butler/go/internal/engine"
	"github.com/file-butler/go/internal/executor"
	"github.com/file-butler/go/internal/inventory"
	"github.com/file-butler/go/internal/jsonoutput"
	"github.com/file-butler/go/internal/mover"
	"github.com/file-butler/go/internal/rules"
	"github.com/file-butler/go/internal/store"
	"github.com/file-butler/go/internal/tui"
	"github.com/file-butler/go/internal/types"
	"github.com/file-butler/go/internal/ui"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	dbFlag           string
	organizeRootFlag string
	trashDirFlag     string
	rulesFileFlag    string
	maxDepthFlag     uint
	workersFlag      int
	yesFlag          bool
	interactiveFlag  bool
	dryRunFlag       bool
	verboseFlag      bool
	jsonFlag         bool
)

var rootCmd = &cobra.Command{
	Use:   "file-butler",
	Short: "Organize files into folders by user-defined rules",
	Long: `Organize files into folders by user-defined rules.

file-butler scans a directory, matches each file against a prioritized
rule set, scores how confident it is in each proposed move, and executes
approved moves as undoable commands.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Path to the state database (default: ~/.file-butler/butler.db)")
	rootCmd.PersistentFlags().StringVar(&organizeRootFlag, "organize-root", "", "Root directory destination folders resolve under (default: scan path)")
	rootCmd.PersistentFlags().StringVar(&trashDirFlag, "trash-dir", "", "Directory trashed files are moved into (default: <organize-root>/.trash)")
	rootCmd.PersistentFlags().StringVar(&rulesFileFlag, "rules", "", "Path to a YAML rules file to use instead of the stored rule set")
	rootCmd.PersistentFlags().UintVar(&maxDepthFlag, "max-depth", 1, "Maximum directory depth to scan")
	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", 4, "Number of parallel evaluation workers")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output in JSON format instead of human-readable text")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(redoCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(rulesCmd)

	applyCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Execute every proposed move without review")
	applyCmd.Flags().BoolVarP(&interactiveFlag, "interactive", "i", false, "Review proposed moves in an interactive picker")
	applyCmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "d", false, "Show proposed moves without executing them")

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesImportCmd)
	rulesCmd.AddCommand(rulesExportCmd)
}

func Execute() error {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verboseFlag || hasFlag("--verbose") || hasFlag("-v") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return rootCmd.Execute()
}

// Cobra parses flags after Execute starts, so the log level flag has
// to be sniffed from the raw arguments.
func hasFlag(name string) bool {
	for _, a := range os.Args[1:] {
		if a == name {
			return true
		}
	}
	return false
}

func buildConfig(args []string) (*types.Config, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if stat, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("path does not exist: %w", err)
	} else if !stat.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	dbPath := dbFlag
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".file-butler", "butler.db")
	}

	organizeRoot := organizeRootFlag
	if organizeRoot == "" {
		organizeRoot = absPath
	}
	trashDir := trashDirFlag
	if trashDir == "" {
		trashDir = filepath.Join(organizeRoot, ".trash")
	}

	return &types.Config{
		Root:         absPath,
		OrganizeRoot: organizeRoot,
		DBPath:       dbPath,
		RulesFile:    nilString(rulesFileFlag),
		TrashDir:     trashDir,
		MaxDepth:     maxDepthFlag,
		Workers:      workersFlag,
		HistoryLimit: command.DefaultHistoryLimit,
		DryRun:       dryRunFlag,
		Yes:          yesFlag,
		Interactive:  interactiveFlag,
		Verbose:      verboseFlag,
		Json:         jsonFlag,
	}, nil
}

func nilString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// app bundles the wired subsystems behind one open/close pair.
type app struct {
	config      *types.Config
	store       *store.Store
	log         *command.Log
	statuses    *command.MemoryStatusStore
	engine      *engine.Engine
	coordinator *executor.Coordinator
	ruleset     []rules.Rule
	printer     *ui.Printer
}

func openApp(cfg *types.Config) (*app, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	statuses := command.NewMemoryStatusStore()
	cmdLog := command.NewLog(mover.Local{}, statuses, cfg.HistoryLimit)

	cmds, cursor, err := st.LoadCommandHistory()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("loading command history: %w", err)
	}
	if err := cmdLog.Restore(cmds, cursor); err != nil {
		log.Warn().Err(err).Msg("Command history is corrupt, starting fresh")
	}
	activity, err := st.LoadActivity()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("loading activity: %w", err)
	}
	cmdLog.RestoreActivity(activity)

	ruleset, err := loadRules(st, cfg)
	if err != nil {
		st.Close()
		return nil, err
	}

	eng := engine.New()
	eng.Workers = cfg.Workers
	eng.Protected = protectedPaths()

	coord := &executor.Coordinator{
		Log:      cmdLog,
		Resolver: &executor.FolderResolver{Root: cfg.OrganizeRoot, Protected: protectedPaths()},
		Statuses: statuses,
		TrashDir: cfg.TrashDir,
	}

	return &app{
		config:      cfg,
		store:       st,
		log:         cmdLog,
		statuses:    statuses,
		engine:      eng,
		coordinator: coord,
		ruleset:     ruleset,
		printer:     ui.NewPrinter(cfg.Verbose, cfg.Json),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("Closing state database failed")
	}
}

// saveState persists command history and activity after a mutating
// command (apply, undo, redo).
func (a *app) saveState() error {
	cmds, cursor := a.log.Snapshot()
	if err := a.store.SaveCommandHistory(cmds, cursor); err != nil {
		return fmt.Errorf("saving command history: %w", err)
	}
	if err := a.store.SaveActivity(a.log.History()); err != nil {
		return fmt.Errorf("saving activity: %w", err)
	}
	return nil
}

func loadRules(st *store.Store, cfg *types.Config) ([]rules.Rule, error) {
	if cfg.RulesFile != nil {
		ruleset, err := rules.LoadFile(*cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("loading rules file: %w", err)
		}
		return ruleset, nil
	}

	ruleset, err := st.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("loading stored rules: %w", err)
	}
	if len(ruleset) > 0 {
		return ruleset, nil
	}

	// First run: seed the built-in system rules so scanning is useful
	// out of the box.
	ruleset = defaultRules()
	if err := st.SaveRules(ruleset); err != nil {
		return nil, fmt.Errorf("seeding default rules: %w", err)
	}
	log.Debug().Int("count", len(ruleset)).Msg("Seeded default system rules")
	return ruleset, nil
}

func protectedPaths() []string {
	return []string{"/etc", "/usr", "/bin", "/sbin", "/boot", "/System", "/Library", "C:\\Windows", "C:\\Program Files"}
}

func defaultRules() []rules.Rule {
	now := time.Now()
	mk := func(name string, sortOrder int, dest types.Destination, conds ...rules.Condition) rules.Rule {
		return rules.Rule{
			ID:          uuid.New().String(),
			Name:        name,
			Conditions:  conds,
			Operator:    rules.OperatorAll,
			SortOrder:   sortOrder,
			Origin:      rules.OriginSystem,
			Enabled:     true,
			Destination: dest,
			CreatedAt:   now,
		}
	}

	return []rules.Rule{
		mk("Screenshots", 10,
			types.Destination{Folder: "Pictures/Screenshots"},
			rules.NameStartsWith{Value: "Screenshot"},
		),
		mk("Installers", 20,
			types.Destination{Folder: "Software"},
			rules.ExtensionIs{Value: ".dmg"},
		),
		mk("Archives by month", 30,
			types.Destination{Folder: "Archives", Template: "{year}/{month}"},
			rules.ContentCategoryIs{Category: types.CategoryArchives},
		),
		mk("Old documents", 40,
			types.Destination{Folder: "Documents", Template: "{year}"},
			rules.ContentCategoryIs{Category: types.CategoryDocuments},
			rules.Not{Inner: rules.ModifiedWithin{Days: 90}},
		),
	}
}

func evaluate(a *app) ([]engine.MatchResult, error) {
	p, err := inventory.New(a.config.Root, int(a.config.MaxDepth))
	if err != nil {
		return nil, fmt.Errorf("creating scanner: %w", err)
	}
	a.printer.ScanStart(a.config.Root)
	files, err := p.List()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	a.printer.ScanComplete(len(files))
	return a.engine.Evaluate(files, a.ruleset), nil
}

var scanCmd = &cobra.Command{
	Use:   "scan [PATH]",
	Short: "Scan a directory and show the proposed organization plan",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(args)
		if err != nil {
			return err
		}
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		plan, err := evaluate(a)
		if err != nil {
			return err
		}

		if cfg.Json {
			out, err := jsonoutput.ToJSON(jsonoutput.FromResults(plan, cfg.Root))
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		}

		a.printer.PrintPlan(plan)
		a.printer.PrintConflicts(plan)
		a.printer.PrintUnmatched(plan)
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply [PATH]",
	Short: "Evaluate and execute the organization plan",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(args)
		if err != nil {
			return err
		}
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		if cfg.Interactive {
			m := tui.NewModel(cfg, a.engine, a.coordinator, a.ruleset)
			if _, err := tea.NewProgram(m).Run(); err != nil {
				return fmt.Errorf("interactive session failed: %w", err)
			}
			return a.saveState()
		}

		plan, err := evaluate(a)
		if err != nil {
			return err
		}
		a.printer.PrintPlan(plan)
		a.printer.PrintConflicts(plan)

		if cfg.DryRun {
			a.printer.DryRunBanner()
			return nil
		}
		if !cfg.Yes {
			return fmt.Errorf("refusing to execute without --yes or --interactive")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		results := a.coordinator.ApproveAndExecute(ctx, plan)
		a.printer.PrintResults(results)
		return a.saveState()
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the most recent executed command",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return unwind("undo")
	},
}

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Re-execute the most recently undone command",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return unwind("redo")
	},
}

func unwind(action string) error {
	cfg, err := buildConfig(nil)
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	var res *command.Result
	if action == "undo" {
		res = a.log.Undo()
	} else {
		res = a.log.Redo()
	}
	a.printer.UndoResult(action, res)
	if res == nil {
		return nil
	}
	return a.saveState()
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently executed commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(nil)
		if err != nil {
			return err
		}
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		a.printer.PrintHistory(a.log.History())
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage the stored rule set",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rules in evaluation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(nil)
		if err != nil {
			return err
		}
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		for _, r := range a.ruleset {
			state := " "
			if !r.Enabled {
				state = "disabled"
			}
			dest := r.Destination.Folder
			if r.Destination.Trash {
				dest = "trash"
			}
			fmt.Printf("%4d  %-10s %-30s -> %s %s\n", r.SortOrder, r.Origin, r.Name, dest, state)
		}
		return nil
	},
}

var rulesImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace stored rules with the contents of a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(nil)
		if err != nil {
			return err
		}
		ruleset, err := rules.LoadFile(args[0])
		if err != nil {
			return fmt.Errorf("loading rules file: %w", err)
		}

		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening state database: %w", err)
		}
		defer st.Close()

		if err := st.SaveRules(ruleset); err != nil {
			return fmt.Errorf("saving rules: %w", err)
		}
		fmt.Printf("Imported %d rules\n", len(ruleset))
		return nil
	},
}

var rulesExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write stored rules to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(nil)
		if err != nil {
			return err
		}
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		if err := rules.SaveFile(args[0], a.ruleset); err != nil {
			return fmt.Errorf("writing rules file: %w", err)
		}
		fmt.Printf("Exported %d rules to %s\n", len(a.ruleset), args[0])
		return nil
	},
}
