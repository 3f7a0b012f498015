package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/classdash/core/internal/domain/entities"
)

// NewDatasetCommand creates the dataset command with subcommands
func NewDatasetCommand() *cobra.Command {
	datasetCmd := &cobra.Command{
		Use:   "dataset",
		Short: "Fetch or publish the shared dataset",
	}

	var output string
	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the shared dataset and print it",
		Long:  "Fetch the shared dataset. When the source is unavailable the built-in dataset is printed and the reason goes to stderr.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			result := c.Fetch.Fetch(cmd.Context())
			if result.Fallback {
				fmt.Fprintf(cmd.ErrOrStderr(), "using built-in dataset: %s\n", result.ReasonText())
			}

			data, err := result.Dataset.EncodeJSON()
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, append(data, '\n'), 0o644)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	fetchCmd.Flags().StringVarP(&output, "output", "o", "", "Write the dataset to a file instead of stdout")
	datasetCmd.AddCommand(fetchCmd)

	datasetCmd.AddCommand(&cobra.Command{
		Use:   "publish <file>",
		Short: "Publish a dataset file to the configured repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := readDatasetFile(args[0])
			if err != nil {
				return err
			}

			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			result, err := c.Publish.Publish(cmd.Context(), ds)
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return err
		},
	})

	return datasetCmd
}

func readDatasetFile(path string) (*entities.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var ds entities.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrFetchDecode, err)
	}
	if err := ds.CheckShape(); err != nil {
		return nil, err
	}
	return &ds, nil
}
