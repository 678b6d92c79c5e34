package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
	formatting "github.com/inference-gateway/pasteboard/internal/formatting"
	pasteboard "github.com/inference-gateway/pasteboard/internal/pasteboard"
	writemodel "github.com/inference-gateway/pasteboard/internal/writemodel"
	cobra "github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write [value]",
	Short: "Write content to the pasteboard",
	Long: `Write content to the pasteboard. The value comes from the argument or,
when omitted, from standard input.

  pbctl write "hello"                          plain text
  pbctl write --html "<b>hi</b>"               markup with a text rendering
  pbctl write --url https://example.com --title Example
  pbctl write --url https://example.com --trustworthy
                                               legacy URL-only channel, keeping other entries
  pbctl write --image shot.png                 image with PNG and TIFF renditions
  pbctl write --type application/x-doc '{}'    one type, keeping other entries
  pbctl write --custom app/x-doc='{}' --custom text/plain=hi
                                               custom data for --origin`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		typ, _ := flags.GetString("type")
		html, _ := flags.GetBool("html")
		link, _ := flags.GetString("url")
		title, _ := flags.GetString("title")
		trustworthy, _ := flags.GetBool("trustworthy")
		imagePath, _ := flags.GetString("image")
		customs, _ := flags.GetStringArray("custom")
		platform, _ := flags.GetStringArray("platform")
		smart, _ := flags.GetBool("smart")
		origin, _ := flags.GetString("origin")
		if !flags.Changed("origin") {
			origin = cfg.Pasteboard.Origin
		}

		return withPasteboard(cmd, func(pb *pasteboard.Pasteboard) error {
			ctx := cmd.Context()
			var err error

			switch {
			case link != "" && trustworthy:
				err = pb.WriteTrustworthyWebURLs(ctx, domain.URL{URL: link, Title: title})
			case link != "":
				err = pb.WriteURL(ctx, domain.URL{URL: link, Title: title})
			case imagePath != "":
				err = writeImage(cmd, pb, imagePath)
			case len(customs) > 0 || len(platform) > 0:
				var data *domain.CustomData
				data, err = buildCustomData(origin, customs, platform)
				if err == nil {
					err = pb.WriteCustomData(ctx, data)
				}
			default:
				var value string
				value, err = valueFromArgs(cmd, args)
				if err != nil {
					return err
				}
				switch {
				case typ != "":
					err = pb.WriteString(ctx, typ, value)
				case html:
					err = pb.WriteMarkup(ctx, value)
				default:
					option := domain.CannotSmartReplace
					if smart {
						option = domain.CanSmartReplace
					}
					err = pb.WritePlainText(ctx, value, option)
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatting.SuccessStyle.Render("written to "+pb.Name()))
			return nil
		})
	},
}

func valueFromArgs(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read standard input: %w", err)
	}
	return string(data), nil
}

func writeImage(cmd *cobra.Command, pb *pasteboard.Pasteboard, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	img, err := writemodel.DecodeImage(data, filepath.Base(path))
	if err != nil {
		return err
	}
	return pb.WriteImage(cmd.Context(), img)
}

// buildCustomData parses type=value pairs into a bundle. Same-origin pairs
// come from customs, natively exported pairs from platform.
func buildCustomData(origin string, customs, platform []string) (*domain.CustomData, error) {
	data := domain.NewCustomData(origin)
	for _, pair := range customs {
		typ, value, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		data.SetSameOriginData(typ, value)
	}
	for _, pair := range platform {
		typ, value, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		data.SetPlatformData(typ, value)
	}
	return data, nil
}

func splitPair(pair string) (string, string, error) {
	typ, value, ok := strings.Cut(pair, "=")
	if !ok || strings.TrimSpace(typ) == "" {
		return "", "", fmt.Errorf("invalid custom entry %q, expected type=value", pair)
	}
	return strings.TrimSpace(typ), value, nil
}

func init() {
	writeCmd.Flags().String("type", "", "write the value under this type, keeping other entries")
	writeCmd.Flags().Bool("html", false, "write the value as markup")
	writeCmd.Flags().String("url", "", "write a link")
	writeCmd.Flags().String("title", "", "title of the link written with --url")
	writeCmd.Flags().Bool("trustworthy", false, "with --url, write only the legacy URL-only entry")
	writeCmd.Flags().String("image", "", "write the image at this path")
	writeCmd.Flags().StringArray("custom", nil, "same-origin custom data entry type=value (repeatable)")
	writeCmd.Flags().StringArray("platform", nil, "custom data entry exported natively, type=value (repeatable)")
	writeCmd.Flags().Bool("smart", false, "mark plain text as smart-replaceable")
	writeCmd.Flags().String("origin", "", "origin recorded with custom data (defaults to pasteboard.origin)")
	rootCmd.AddCommand(writeCmd)
}
