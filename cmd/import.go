package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/killallgit/paperreel-api/internal/database"
	"github.com/killallgit/paperreel-api/internal/models"
	"github.com/killallgit/paperreel-api/internal/services/documents"
	"github.com/killallgit/paperreel-api/pkg/transcript"
)

// importCmd loads a document into the database
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a document",
	Long: `Import a paper's layout blocks and, optionally, its captions and media.

Blocks are read from a JSON array. Captions may be a local file or an
http(s) URL in WebVTT, SRT or JSON format. The PDF and video are copied
into the document's media directory.

Example:
  paperreel-api import --doi 10.1145/3313831.3376323 --blocks blocks.json \
    --captions captions.vtt --pdf paper.pdf --video talk.mp4`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("doi", "", "document DOI")
	importCmd.Flags().String("title", "", "document title")
	importCmd.Flags().String("blocks", "", "path of the blocks JSON file")
	importCmd.Flags().String("captions", "", "caption file path or URL")
	importCmd.Flags().String("pdf", "", "paper PDF to copy into the media directory")
	importCmd.Flags().String("video", "", "presentation video to copy into the media directory")
	_ = importCmd.MarkFlagRequired("doi")
	_ = importCmd.MarkFlagRequired("blocks")
}

func runImport(cmd *cobra.Command, args []string) error {
	doi, _ := cmd.Flags().GetString("doi")
	title, _ := cmd.Flags().GetString("title")
	blocksPath, _ := cmd.Flags().GetString("blocks")
	captionsSource, _ := cmd.Flags().GetString("captions")
	pdfPath, _ := cmd.Flags().GetString("pdf")
	videoPath, _ := cmd.Flags().GetString("video")

	blocks, err := readBlocks(blocksPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	return withDatabase(cmd, func(db *database.DB) error {
		if err := db.Migrate(); err != nil {
			return err
		}
		ctx := cmd.Context()
		docs := documents.NewService(documents.NewRepository(db.DB), documents.Options{
			MediaDir: cfg.Storage.MediaDir,
		})

		if err := docs.ImportBlocks(ctx, doi, title, blocks); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d blocks for %s\n", len(blocks), doi)

		if captionsSource != "" {
			t, err := transcript.NewFetcher(transcript.DefaultFetchOptions()).Load(ctx, captionsSource)
			if err != nil {
				return err
			}
			captions := captionsFromTranscript(t)
			if err := docs.ImportCaptions(ctx, doi, captions); err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d captions (%s)\n", len(captions), t.Format)
		}

		media := []struct{ src, name string }{
			{pdfPath, documents.PDFFile},
			{videoPath, documents.VideoFile},
		}
		for _, m := range media {
			if m.src == "" {
				continue
			}
			dst := filepath.Join(docs.MediaDir(doi), m.name)
			if err := copyFile(m.src, dst); err != nil {
				return err
			}
			fmt.Fprintf(out, "Copied %s to %s\n", m.src, dst)
		}
		return nil
	})
}

func readBlocks(path string) ([]models.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blocks: %w", err)
	}
	var blocks []models.Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("failed to parse blocks %s: %w", path, err)
	}
	return blocks, nil
}

// captionsFromTranscript converts parsed segments to caption lines. Ids
// are assigned on import.
func captionsFromTranscript(t *transcript.Transcript) []models.Caption {
	captions := make([]models.Caption, 0, len(t.Segments))
	for _, seg := range t.Segments {
		start, end := seg.Seconds()
		captions = append(captions, models.Caption{Caption: seg.Text, Start: start, End: end})
	}
	return captions
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
