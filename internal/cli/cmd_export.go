package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mmynk/gymlog/internal/service"
)

const (
	exportFormatMarkdown = "markdown"
	exportFormatJSON     = "json"
)

func newExportCommand(deps commandDeps) *cobra.Command {
	var (
		format string
		output string
		render bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all gyms and equipment as Markdown or JSON",
		Example: "  gymlog export --format markdown --output gym-equipment-inventory.md\n" +
			"  gymlog export --format json --output gym-equipment-data.json\n" +
			"  gymlog export --render",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("export does not accept positional arguments")
			}
			format = strings.ToLower(strings.TrimSpace(format))
			if format == "md" {
				format = exportFormatMarkdown
			}
			if format != exportFormatMarkdown && format != exportFormatJSON {
				return usageErrorf("export --format must be %q or %q", exportFormatMarkdown, exportFormatJSON)
			}
			if render && (format != exportFormatMarkdown || output != "") {
				return usageErrorf("export --render only applies to markdown printed to the terminal")
			}

			return withInventory(cmd.Context(), deps, false, func(ctx context.Context, inventory *service.InventoryService) error {
				var (
					content string
					err     error
				)
				if format == exportFormatJSON {
					content, err = inventory.ExportJSON(ctx)
				} else {
					content, err = inventory.ExportMarkdown(ctx)
				}
				if err != nil {
					return err
				}

				if output != "" {
					if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
						return fmt.Errorf("failed to write export: %w", err)
					}
					_, err := fmt.Fprintf(deps.out, "Exported to %s\n", output)
					return err
				}

				if render {
					style := "notty"
					if deps.isTTY != nil && deps.isTTY() {
						style = "dark"
					}
					content, err = renderMarkdown(content, style)
					if err != nil {
						return err
					}
				}
				_, err = fmt.Fprint(deps.out, content)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", exportFormatMarkdown, "Export format: markdown or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&render, "render", false, "Render the Markdown for the terminal")
	return cmd
}

func renderMarkdown(content, style string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return rendered, nil
}
