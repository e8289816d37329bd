package cmd

import (
	"context"
	"errors"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"wifisnap/internal/collector"
	"wifisnap/internal/config"
	"wifisnap/internal/report"
	"wifisnap/internal/snapshot"
)

type ServiceFactory func(cfg *config.Config) collector.Service

// newService is the factory Execute uses.
var newService ServiceFactory = DefaultService

func DefaultService(cfg *config.Config) collector.Service {
	if cfg.Backend == config.BackendIW {
		return collector.NewIW(cfg.Interface)
	}
	return collector.NewNetlink(cfg.Interface)
}

func NewRootCmd(factory ServiceFactory) *cobra.Command {
	v := config.New()

	rootCmd := &cobra.Command{
		Use:           "wifisnap",
		Short:         "Print a JSON snapshot of the wireless link and nearby networks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log.SetLevel(cfg.LogLevel)

			b := snapshot.New(factory(cfg))
			if cfg.ReportScanErrors {
				b.Policy = snapshot.DegradeWithReason
			}

			snap, err := b.Build(cmd.Context())
			if errors.Is(err, snapshot.ErrNoInterface) {
				if werr := report.WriteError(cmd.OutOrStdout(), snapshot.NoInterfaceMessage); werr != nil {
					log.WithError(werr).Debug("error document not written")
				}
				return err
			}
			if err != nil {
				return err
			}

			if err := report.Write(cmd.OutOrStdout(), snap); err != nil {
				log.WithError(err).Debug("snapshot not written")
			}
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringP(config.KeyInterface, "i", "", "wireless interface to query (default: first station interface)")
	flags.String(config.KeyBackend, config.BackendNetlink, "wireless backend: netlink or iw")
	flags.String(config.KeyLogLevel, "warn", "stderr log level")
	flags.Bool(config.KeyReportScanErrors, false, "add scan_error to the output when the scan fails")
	if err := v.BindPFlags(flags); err != nil {
		log.WithError(err).Fatal("bind flags")
	}
	return rootCmd
}

func Execute() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	err := NewRootCmd(newService).ExecuteContext(context.Background())
	if err != nil {
		if !errors.Is(err, snapshot.ErrNoInterface) {
			log.Error(err)
		}
		os.Exit(1)
	}
}
