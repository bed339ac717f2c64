// Command transcripts prints the stored transcript of one meeting: every
// transcription segment in chronological order with its translations.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"babelroom/repositories"
)

func defaultLimit() int {
	n, err := strconv.Atoi(os.Getenv("LIMIT_SEGMENTS"))
	if err != nil {
		return 0
	}
	return n
}

func main() {
	_ = godotenv.Load()
	dbPath := flag.String("db", os.Getenv("BADGER_FILEPATH"), "Path to badger DB")
	meetingFlag := flag.String("meeting", "", "Meeting id to print")
	limit := flag.Int("limit", defaultLimit(), "Max utterances to print (0 = all)")
	flag.Parse()

	meetingID, err := uuid.Parse(*meetingFlag)
	if err != nil {
		log.Fatalf("A valid -meeting id is required: %v", err)
	}

	// Read-only so the viewer can run next to a live server.
	// BypassLockGuard allows opening while the server holds the lock.
	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	segmentRepo := repositories.NewSegmentRepository(db, slog.Default())
	transcriptions, err := segmentRepo.GetTranscriptions(meetingID)
	if err != nil {
		log.Fatalf("Failed to read transcriptions: %v", err)
	}
	if len(transcriptions) == 0 {
		fmt.Println("No transcript stored for this meeting")
		return
	}
	if *limit > 0 && len(transcriptions) > *limit {
		transcriptions = transcriptions[:*limit]
	}

	header := color.New(color.BgBlack, color.FgGreen).Render(fmt.Sprintf("Meeting %s (%d utterances)", meetingID, len(transcriptions)))
	fmt.Println(header)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Participant", "Lang", "Text"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, t := range transcriptions {
		table.Append([]string{
			t.Timestamp.Format("15:04:05"),
			t.ParticipantID.String()[:8],
			t.SourceLanguage,
			t.OriginalText,
		})
		translations, err := segmentRepo.GetTranslations(t.ID)
		if err != nil {
			log.Fatalf("Failed to read translations: %v", err)
		}
		for _, tr := range translations {
			table.Append([]string{"", "", "→ " + tr.TargetLanguage, tr.TranslatedText})
		}
	}
	table.Render()
}
