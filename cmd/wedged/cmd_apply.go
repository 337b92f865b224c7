package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wedge-network/wedged/pkg/util"
	"github.com/wedge-network/wedged/pkg/wedged/appldb"
	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/platform"
	"github.com/wedge-network/wedged/pkg/wedged/reconcile"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

func newApplyCmd() *cobra.Command {
	var (
		configPath     string
		prevConfigPath string
		localMac       string
		portSpec       string
		queuesPerPort  int
		appldbAddr     string
		appldbDB       int
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile a configuration against the switch state",
		RunE: func(cmd *cobra.Command, args []string) error {
			plat, err := buildPlatform(localMac, portSpec, queuesPerPort)
			if err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			prev := plat.SeedState()
			var prevCfg *config.SwitchConfig
			if prevConfigPath != "" {
				prevCfg, err = config.Load(prevConfigPath)
				if err != nil {
					return err
				}
				// Replay the previous config so the diff starts from the
				// state it produced.
				prev, err = applyOnce(prev, prevCfg, plat, nil)
				if err != nil {
					return fmt.Errorf("replaying previous config: %w", err)
				}
			}

			log := util.WithOperation("apply")
			newState, err := reconcile.Apply(prev, cfg, plat, prevCfg)
			if err != nil {
				return fmt.Errorf("applying %s: %w", configPath, err)
			}
			if newState == nil {
				log.Info("configuration matches running state; nothing to do")
				return nil
			}
			log.WithField("ports", len(newState.Ports)).
				WithField("vlans", len(newState.Vlans)).
				WithField("interfaces", len(newState.Interfaces)).
				WithField("acls", len(newState.Acls)).
				Info("configuration applied")

			if appldbAddr == "" {
				return nil
			}
			client := appldb.NewClient(appldbAddr, appldbDB)
			defer client.Close()
			if err := client.Ping(); err != nil {
				return fmt.Errorf("connecting to appl db %s: %w", appldbAddr, err)
			}
			snap := appldb.Render(newState)
			if err := client.Publish(snap); err != nil {
				return fmt.Errorf("publishing state: %w", err)
			}
			log.WithField("entries", snap.EntryCount()).Info("applied state published")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "switch configuration file (JSON or YAML)")
	cmd.Flags().StringVar(&prevConfigPath, "prev-config", "", "previously applied configuration file")
	cmd.Flags().StringVar(&localMac, "local-mac", "02:00:00:00:00:01", "platform base MAC address")
	cmd.Flags().StringVar(&portSpec, "ports", "1-32", "platform port inventory, range notation")
	cmd.Flags().IntVar(&queuesPerPort, "queues", 8, "queues per port")
	cmd.Flags().StringVar(&appldbAddr, "appldb", "", "applied-state Redis address (empty disables publishing)")
	cmd.Flags().IntVar(&appldbDB, "appldb-db", 0, "applied-state Redis database number")
	cmd.MarkFlagRequired("config")

	return cmd
}

func buildPlatform(localMac, portSpec string, queuesPerPort int) (*platform.Fixed, error) {
	mac, err := state.ParseMAC(localMac)
	if err != nil {
		return nil, fmt.Errorf("invalid --local-mac: %w", err)
	}
	ports, err := platform.ParsePortList(portSpec)
	if err != nil {
		return nil, fmt.Errorf("invalid --ports: %w", err)
	}
	util.Debugf("platform: mac=%s ports=%s queues=%d", mac, platform.FormatPortList(ports), queuesPerPort)
	return &platform.Fixed{Mac: mac, PortIDs: ports, QueuesPerPort: queuesPerPort}, nil
}

// applyOnce applies cfg and returns the resulting state, carrying the
// previous state through when nothing changed.
func applyOnce(prev *state.SwitchState, cfg *config.SwitchConfig,
	plat platform.Platform, prevCfg *config.SwitchConfig) (*state.SwitchState, error) {

	next, err := reconcile.Apply(prev, cfg, plat, prevCfg)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return prev, nil
	}
	return next, nil
}
