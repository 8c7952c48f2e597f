package cmd

import (
	"github.com/matheuskafuri/kanjo/internal/tui"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	s.log.Info("starting dashboard")
	return tui.Run(tui.RunOpts{Cfg: s.cfg, Service: s.svc})
}
