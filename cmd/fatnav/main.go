package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aligator/fatnav"
	"github.com/aligator/fatnav/checkpoint"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var defaultLogFormatter = &log.TextFormatter{}

// infoFormatter overrides the default format for Info() log events to
// provide an easier to read output
type infoFormatter struct {
}

func (f *infoFormatter) Format(entry *log.Entry) ([]byte, error) {
	if entry.Level == log.InfoLevel {
		return append([]byte(entry.Message), '\n'), nil
	}
	return defaultLogFormatter.Format(entry)
}

// setupLogging configures the standard logger. The log file is only written if a directory is configured.
func setupLogging(cfg logConfig, quiet, verbose bool) {
	log.SetFormatter(new(infoFormatter))
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stderr)

	if quiet {
		log.SetLevel(log.ErrorLevel)
	}
	if verbose {
		// Switch back to the standard formatter
		log.SetFormatter(defaultLogFormatter)
		log.SetLevel(log.DebugLevel)
	}

	if cfg.Directory == "" {
		return
	}

	// lumberjack always writes to the host OS and creates the directory with the first log line.
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Directory, "fatnav.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
}

// app is shared by all commands.
type app struct {
	host afero.Fs
	out  io.Writer
	cfg  config
}

// open opens the configured image.
func (a *app) open() (*fatnav.Session, error) {
	if a.cfg.Image == "" {
		return nil, errors.New("no image given, use --image or set image in the config file")
	}

	session := fatnav.NewSession(a.host,
		fatnav.WithLogger(log.StandardLogger()),
		fatnav.SkipChecks(a.cfg.SkipChecks),
	)
	if err := session.Open(a.cfg.Image); err != nil {
		return nil, err
	}
	return session, nil
}

func newRootCmd(host afero.Fs, out io.Writer) *cobra.Command {
	a := &app{host: host, out: out}

	var (
		flagQuiet   bool
		flagVerbose bool
		configPath  string
		imagePath   string
		skipChecks  bool
	)

	root := &cobra.Command{
		Use:           "fatnav",
		Short:         "Inspect FAT32 images without mounting them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if flagQuiet && flagVerbose {
				return errors.New("can't set quiet and verbose flag at the same time")
			}

			path, required := configPath, configPath != ""
			if !required {
				path = defaultConfigPath()
			}
			cfg, err := loadConfig(host, path, required)
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", path, err)
			}

			if imagePath != "" {
				cfg.Image = imagePath
			}
			if cmd.Flags().Changed("skip-checks") {
				cfg.SkipChecks = skipChecks
			}

			a.cfg = cfg
			setupLogging(cfg.Logs, flagQuiet, flagVerbose)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Quiet execution")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose execution")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.fatnav/config.yml)")
	root.PersistentFlags().StringVarP(&imagePath, "image", "i", "", "FAT32 image, may end with .xz or .lz4")
	root.PersistentFlags().BoolVar(&skipChecks, "skip-checks", false, "skip the boot sector validation")

	root.AddCommand(
		infoCmd(a),
		volumeCmd(a),
		lsCmd(a),
		statCmd(a),
		readCmd(a),
		getCmd(a),
		treeCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd(afero.NewOsFs(), os.Stdout).Execute(); err != nil {
		log.WithField("trail", checkpoint.Trail(err)).Debug("command failed")
		log.Fatal(err)
	}
}
