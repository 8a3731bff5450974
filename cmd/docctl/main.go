package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"text/tabwriter"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"docstore/internal/app"
	"docstore/internal/config"
	"docstore/internal/logger"
	"docstore/internal/model"
	"docstore/internal/service"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the environment and opens the configured store. The caller
// must defer a.Close().
var newApp = func(ctx context.Context) (*app.App, error) {
	cfg := config.Load()
	// Notifications are printed, never left open.
	cfg.Notification.TimeoutMS = 0

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	a, err := app.New(ctx, cfg, log, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	if err := a.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// withApp runs fn against a freshly opened app.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// report prints the notification of a document mutation and turns error
// outcomes into a command failure.
func report(cmd *cobra.Command, n model.Notification) error {
	if n.Outcome == model.OutcomeError {
		return errors.New(n.Message)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", n.Outcome, n.Message)
	return nil
}

var rootCmd = &cobra.Command{
	Use:           "docctl",
	Short:         "Manage documents and document types",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// types command
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Manage document types",
}

var typesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List document types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, t := range a.DocumentTypes.Types() {
				fmt.Fprintf(w, "%s\t%s\n", t.ID, t.Name)
			}
			return w.Flush()
		})
	},
}

var typesAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a document type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			dt, err := a.DocumentTypes.Add(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", dt.Name, dt.ID)
			return nil
		})
	},
}

var typesRenameCmd = &cobra.Command{
	Use:   "rename ID NAME",
	Short: "Rename a document type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			dt, err := a.DocumentTypes.Rename(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", dt.ID, dt.Name)
			return nil
		})
	},
}

var typesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a document type",
	Long:  "Delete a document type. Documents that reference it are kept and shown with an unknown type.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.DocumentTypes.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		})
	},
}

// docs command
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		if status != "" && !model.Status(status).Valid() {
			return fmt.Errorf("invalid status %q: use active or deleted", status)
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			docs := service.FilterByStatus(a.Documents.Documents(), model.Status(status))
			if len(docs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No documents.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tDATE\tTYPE\tNAME")
			for _, d := range docs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					d.ID, d.Status, d.CreationDate, a.DocumentTypes.NameOf(d.DocumentTypeID), d.Name)
			}
			return w.Flush()
		})
	},
}

var docsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			doc, err := a.Documents.Get(ctx, args[0])
			if err != nil {
				return err
			}
			v := model.DocumentView{Document: *doc, DocumentTypeName: a.DocumentTypes.NameOf(doc.DocumentTypeID)}
			// The data URI is replaced by its size; use export for the content.
			v.FileContent = fmt.Sprintf("<%d bytes>", len(doc.FileContent))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		})
	},
}

var docsAddCmd = &cobra.Command{
	Use:   "add FILE",
	Short: "Add a document from a local file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		ct := mime.TypeByExtension(filepath.Ext(path))
		if ct == "" {
			ct = http.DetectContentType(data)
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = filepath.Base(path)
		}
		typeID, _ := cmd.Flags().GetString("type")
		description, _ := cmd.Flags().GetString("description")
		date, _ := cmd.Flags().GetString("date")

		in := model.DocumentInput{
			Name:           name,
			DocumentTypeID: typeID,
			CreationDate:   date,
			FileContent:    service.EncodeDataURI(ct, data),
			FileName:       filepath.Base(path),
			FileType:       ct,
			Description:    description,
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			n, err := a.Documents.Add(ctx, in)
			if err != nil {
				return err
			}
			return report(cmd, n)
		})
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Mark a document as deleted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			n, err := a.Documents.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			return report(cmd, n)
		})
	},
}

var docsReactivateCmd = &cobra.Command{
	Use:   "reactivate ID",
	Short: "Reactivate a deleted document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			n, err := a.Documents.Reactivate(ctx, args[0])
			if err != nil {
				return err
			}
			return report(cmd, n)
		})
	},
}

var docsExportCmd = &cobra.Command{
	Use:   "export ID",
	Short: "Write the attached file to disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			f, err := a.Documents.Download(ctx, args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Base(f.Name)
			}
			if err := os.WriteFile(out, f.Data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d bytes)\n", out, f.ContentType, len(f.Data))
			return nil
		})
	},
}

func init() {
	// types subcommands
	typesCmd.AddCommand(typesListCmd)
	typesCmd.AddCommand(typesAddCmd)
	typesCmd.AddCommand(typesRenameCmd)
	typesCmd.AddCommand(typesDeleteCmd)

	// docs subcommands
	docsCmd.AddCommand(docsListCmd)
	docsListCmd.Flags().StringP("status", "s", "", "Only show documents with this status (active, deleted)")
	docsCmd.AddCommand(docsShowCmd)
	docsCmd.AddCommand(docsAddCmd)
	docsAddCmd.Flags().StringP("name", "n", "", "Document name (defaults to the file name)")
	docsAddCmd.Flags().StringP("type", "t", "", "Document type ID")
	docsAddCmd.Flags().StringP("description", "d", "", "Description")
	docsAddCmd.Flags().String("date", "", "Creation date YYYY-MM-DD (defaults to today)")
	docsCmd.AddCommand(docsDeleteCmd)
	docsCmd.AddCommand(docsReactivateCmd)
	docsCmd.AddCommand(docsExportCmd)
	docsExportCmd.Flags().StringP("output", "o", "", "Output path (defaults to the stored file name)")

	// root commands
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(docsCmd)
}
