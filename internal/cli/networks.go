package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	pqio "github.com/matzehuels/pathquery/pkg/io"
)

// networksCommand manages the networks of the configured store.
func (c *CLI) networksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "networks",
		Aliases: []string{"network"},
		Short:   "Manage stored networks",
	}
	cmd.AddCommand(c.networksListCommand())
	cmd.AddCommand(c.networksAddCommand())
	cmd.AddCommand(c.networksRemoveCommand())
	return cmd
}

func (c *CLI) networksListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			infos, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No stored networks")
				return nil
			}
			rows := make([][]string, len(infos))
			for i, info := range infos {
				rows[i] = []string{
					info.Name,
					strconv.Itoa(info.Entities),
					strconv.Itoa(info.Interactions),
					info.UpdatedAt.Format("2006-01-02 15:04"),
					info.Description,
				}
			}
			printTable([]string{"Name", "Entities", "Interactions", "Updated", "Description"}, rows)
			return nil
		},
	}
}

func (c *CLI) networksAddCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Store a network file (JSON, TOML or SIF)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := pqio.ImportNetwork(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				n.Name = name
			}
			if err := pqerrors.ValidateName(n.Name); err != nil {
				return fmt.Errorf("%w (use --name)", err)
			}

			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Save(cmd.Context(), n); err != nil {
				return err
			}
			printSuccess("Stored network %s", StyleHighlight.Render(n.Name))
			printDetail("%d entities, %d interactions", n.Len(), len(n.Interactions()))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "store under this name instead of the file's")
	return cmd
}

func (c *CLI) networksRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a stored network",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Removed network %s", args[0])
			return nil
		},
	}
}
