package cmd

import (
	"github.com/shillmarket/broker/src/broker"
	"github.com/shillmarket/broker/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(brokerCmd)
}

var brokerCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the gateway, the delayed dispatcher and the verification pipeline",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := broker.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		select {
		case <-controller.CtxRunning.Done():
		case <-applicationCtx.Done():
		}

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished run command")
		applicationCtxCancel()
		return
	},
}
