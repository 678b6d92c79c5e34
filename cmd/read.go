package cmd

import (
	"fmt"
	"io"
	"net/url"
	"os"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
	formatting "github.com/inference-gateway/pasteboard/internal/formatting"
	negotiator "github.com/inference-gateway/pasteboard/internal/negotiator"
	pasteboard "github.com/inference-gateway/pasteboard/internal/pasteboard"
	cobra "github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read [type]",
	Short: "Read pasteboard content",
	Long: `Read the plain text on the pasteboard, or the value of a single type.

  pbctl read                      plain text, falling back to the URL
  pbctl read text/html            one type
  pbctl read --custom app/x-doc   same-origin custom data for --origin
  pbctl read --rich               richest web content format available
  pbctl read --files              file names and in-memory images
  pbctl read --trustworthy        links on the legacy URL-only channel`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rich, _ := cmd.Flags().GetBool("rich")
		richOnly, _ := cmd.Flags().GetBool("rich-only")
		files, _ := cmd.Flags().GetBool("files")
		trustworthy, _ := cmd.Flags().GetBool("trustworthy")
		custom, _ := cmd.Flags().GetBool("custom")
		save, _ := cmd.Flags().GetString("save")
		origin, _ := cmd.Flags().GetString("origin")
		if !cmd.Flags().Changed("origin") {
			origin = cfg.Pasteboard.Origin
		}

		return withPasteboard(cmd, func(pb *pasteboard.Pasteboard) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			switch {
			case files:
				return readFiles(cmd, pb, save)
			case trustworthy:
				urls, err := pb.ReadTrustworthyWebURLs(ctx)
				if err != nil {
					return err
				}
				for _, u := range urls {
					printURL(cmd, u.URL, u.Title)
				}
			case rich || richOnly:
				policy := domain.AnyType
				if richOnly {
					policy = domain.OnlyRichTextTypes
				}
				return readWebContent(cmd, pb, policy)
			case len(args) == 1 && custom:
				value, err := pb.ReadStringInCustomData(ctx, origin, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value)
			case len(args) == 1:
				value, err := pb.ReadString(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value)
			default:
				text, err := pb.ReadPlainText(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text.Text)
			}
			return nil
		})
	},
}

func printURL(cmd *cobra.Command, link, title string) {
	out := cmd.OutOrStdout()
	if title != "" {
		fmt.Fprintf(out, "%s  %s\n", link, formatting.DimStyle.Render(title))
		return
	}
	fmt.Fprintln(out, link)
}

func readWebContent(cmd *cobra.Command, pb *pasteboard.Pasteboard, policy domain.ReadingPolicy) error {
	out := cmd.OutOrStdout()
	width := cfg.Pasteboard.PreviewWidth

	show := func(typ string, data []byte) bool {
		fmt.Fprintf(out, "%s  %s\n", formatting.TypeStyle.Render(typ), formatting.Preview(typ, data, width))
		return true
	}

	reader := &domain.WebContentReader{
		ReadWebArchive: func(data []byte) bool { return show(domain.TypeWebArchive, data) },
		ReadFilePaths: func(paths []string) bool {
			for _, p := range paths {
				fmt.Fprintln(out, p)
			}
			return len(paths) > 0
		},
		ReadHTML: func(markup string) bool { return show(domain.TypeHTML, []byte(markup)) },
		ReadRTFD: func(data []byte) bool { return show(domain.TypeRTFD, data) },
		ReadRTF:  func(data []byte) bool { return show(domain.TypeRTF, data) },
		ReadImage: func(data []byte, mimeType string) bool {
			return show(mimeType, data)
		},
		ReadURL: func(u *url.URL, title string) bool {
			printURL(cmd, u.String(), title)
			return true
		},
		ReadPlainText: func(text string) bool { return show(domain.TypePlainText, []byte(text)) },
	}

	result, err := pb.Read(cmd.Context(), reader, policy)
	if err != nil {
		return err
	}
	if result.Outcome == negotiator.NoMatch {
		fmt.Fprintln(out, formatting.WarningStyle.Render("no readable content"))
	}
	return nil
}

func readFiles(cmd *cobra.Command, pb *pasteboard.Pasteboard, save string) error {
	out := cmd.OutOrStdout()
	var writeErr error

	err := pb.ReadFiles(cmd.Context(), domain.FileReader{
		ReadFilename: func(name string) {
			fmt.Fprintln(out, name)
		},
		ReadBuffer: func(filename, mimeType string, data []byte) {
			label := filename
			if label == "" {
				label = "(unnamed)"
			}
			fmt.Fprintf(out, "%s  %s  %s\n", label, formatting.TypeStyle.Render(mimeType), formatting.FormatSize(len(data)))
			if save != "" {
				writeErr = saveBuffer(save, data)
			}
		},
	})
	if err != nil {
		return err
	}
	return writeErr
}

func saveBuffer(path string, data []byte) error {
	var w io.Writer
	if path == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func init() {
	readCmd.Flags().Bool("rich", false, "negotiate the richest web content format")
	readCmd.Flags().Bool("rich-only", false, "negotiate rich text formats only")
	readCmd.Flags().Bool("files", false, "read file names and in-memory images")
	readCmd.Flags().Bool("trustworthy", false, "read links from the legacy URL-only channel")
	readCmd.Flags().Bool("custom", false, "read the type from same-origin custom data")
	readCmd.Flags().String("origin", "", "origin of the reading page (defaults to pasteboard.origin)")
	readCmd.Flags().String("save", "", "with --files, save the image buffer to this path")
	rootCmd.AddCommand(readCmd)
}
