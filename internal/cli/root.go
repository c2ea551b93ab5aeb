package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/excelvision/excelvision/internal/chart"
)

const defaultServerURL = "http://localhost:8080"

// App wires the CLI commands to the state store they share.
type App struct {
	store     *StateStore
	serverURL string
}

// NewRootCmd builds the excelvision command tree over the given state store.
func NewRootCmd(store *StateStore) *cobra.Command {
	app := &App{store: store}

	rootCmd := &cobra.Command{
		Use:   "excelvision",
		Short: "Upload spreadsheets and turn them into charts",
		Long: `excelvision is the command-line client for the Excel Vision backend:
sign up, log in, upload a spreadsheet, and render its rows as charts
exported to PNG or PDF.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&app.serverURL, "server", defaultServerURL, "Backend base URL")

	rootCmd.AddCommand(
		app.signupCmd(),
		app.loginCmd(),
		app.uploadCmd(),
		app.chartCmd(),
		app.historyCmd(),
	)
	return rootCmd
}

func (a *App) client(token string) *APIClient {
	return NewAPIClient(a.serverURL, token)
}

func (a *App) signupCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client("").Signup(name, email, password); err != nil {
				return err
			}
			fmt.Println("Signed up. Now run: excelvision login")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func (a *App) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, name, err := a.client("").Login(email, password)
			if err != nil {
				return err
			}

			st, err := a.store.Load()
			if err != nil {
				return err
			}
			st.ServerURL = a.serverURL
			st.Token = token
			st.Name = name
			if err := a.store.Save(st); err != nil {
				return err
			}
			fmt.Printf("Welcome, %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func (a *App) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.xlsx|file.csv>",
		Short: "Upload a spreadsheet and keep its parsed rows locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			st, err := a.store.Load()
			if err != nil {
				return err
			}

			rows, err := a.client(st.Token).Upload(filepath.Base(path), content)
			if err != nil {
				return err
			}

			st.LastParsed = rows
			st.UploadedFiles = append(st.UploadedFiles, filepath.Base(path))
			if err := a.store.Save(st); err != nil {
				return err
			}

			fmt.Printf("Parsed %d rows", len(rows))
			if len(rows) > 0 {
				fmt.Printf(" with columns: %s", strings.Join(columnsOf(rows), ", "))
			}
			fmt.Println()
			return nil
		},
	}
}

func (a *App) chartCmd() *cobra.Command {
	var kindName, x, y, output string
	var width, height int

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the last-uploaded rows as a chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store.Load()
			if err != nil {
				return err
			}
			if len(st.LastParsed) == 0 {
				return fmt.Errorf("no parsed rows; run: excelvision upload <file>")
			}

			kind, err := chart.ParseKind(kindName)
			if err != nil {
				return err
			}

			ds, err := chart.Build(st.LastParsed, x, y, kind)
			if err != nil {
				return err
			}

			png, err := chart.Render(ds, width, height)
			if err != nil {
				return err
			}

			out := png
			if strings.EqualFold(filepath.Ext(output), ".pdf") {
				out, err = chart.ExportPDF(png)
				if err != nil {
					return err
				}
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Printf("Wrote %s chart to %s\n", kind, output)
			return nil
		},
	}
	cmd.Flags().StringVar(&kindName, "kind", "Bar", "Chart kind: Bar, Line, Pie, Scatter")
	cmd.Flags().StringVar(&x, "x", "", "X-axis column")
	cmd.Flags().StringVar(&y, "y", "", "Y-axis column")
	cmd.Flags().StringVarP(&output, "output", "o", "chart.png", "Output file (.png or .pdf)")
	cmd.Flags().IntVar(&width, "width", 1024, "Chart width in pixels")
	cmd.Flags().IntVar(&height, "height", 576, "Chart height in pixels")
	cmd.MarkFlagRequired("x")
	cmd.MarkFlagRequired("y")
	return cmd
}

func (a *App) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List uploads recorded by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store.Load()
			if err != nil {
				return err
			}
			if st.Token == "" {
				return fmt.Errorf("not logged in; run: excelvision login")
			}

			recs, err := a.client(st.Token).History()
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("No uploads yet.")
				return nil
			}
			for _, rec := range recs {
				fmt.Printf("%s  %8d bytes  %4d rows  %s\n",
					rec.CreatedAt.Format("2006-01-02 15:04"), rec.ByteSize, rec.RowCount, rec.Filename)
			}
			return nil
		},
	}
}

// columnsOf returns the column names seen in the first row, sorted.
func columnsOf(rows []map[string]any) []string {
	cols := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
