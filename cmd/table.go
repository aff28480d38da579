package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// tableCmd represents the table command
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Inspect the remote table",
}

var tableTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify credentials against the remote table",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		return a.client.TestConnection(context.Background())
	},
}

var tableFieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the remote table's fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		fields, err := a.client.ListFields(context.Background())
		if err != nil {
			return err
		}

		for _, field := range fields {
			a.logger.Info("Field",
				zap.String("id", field.FieldID),
				zap.String("name", field.FieldName),
				zap.Int("type", field.Type))
		}
		return nil
	},
}

func init() {
	tableCmd.AddCommand(tableTestCmd)
	tableCmd.AddCommand(tableFieldsCmd)
	RootCmd.AddCommand(tableCmd)
}
