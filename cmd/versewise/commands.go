package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xhad/versewise/internal/models"
	"github.com/xhad/versewise/server"
)

var userID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive study session",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question",
	Example: `  versewise ask "What does John 3:16 mean?"
  versewise ask What does G26 tell us about love`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger, false)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintln(cmd.OutOrStdout(), a.assistant.Answer(cmd.Context(), strings.Join(args, " ")))
		return nil
	},
}

var versesCmd = &cobra.Command{
	Use:   "verses [reference or keywords]",
	Short: "Look up a passage, or search verses by keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger, false)
		if err != nil {
			return err
		}
		defer a.Close()

		query := strings.Join(args, " ")
		verses := a.resolver.Resolve(cmd.Context(), query)
		if len(verses) == 0 {
			verses = a.resolver.Search(cmd.Context(), query, cfg.Providers.SearchLimit)
		}
		if len(verses) == 0 {
			return fmt.Errorf("no verses found for %q", query)
		}
		printVerses(cmd.OutOrStdout(), verses, true)
		return nil
	},
}

var chapterCmd = &cobra.Command{
	Use:     "chapter [book] [chapter]",
	Short:   "Print a whole chapter",
	Example: `  versewise chapter "1 John" 4`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("chapter must be a positive integer, got %q", args[1])
		}

		a, err := newApp(cmd.Context(), cfg, logger, false)
		if err != nil {
			return err
		}
		defer a.Close()

		chapter := a.resolver.ResolveChapter(cmd.Context(), args[0], n)
		if len(chapter.Verses) == 0 {
			return fmt.Errorf("chapter %s %d is unavailable", args[0], n)
		}
		color.New(color.Bold).Fprintf(cmd.OutOrStdout(), "%s %d\n\n", chapter.Book, chapter.Chapter)
		printVerses(cmd.OutOrStdout(), chapter.Verses, false)
		return nil
	},
}

var strongsCmd = &cobra.Command{
	Use:   "strongs [id]",
	Short: "Show a Strong's concordance entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger, false)
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.concordance.Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printEntry(cmd.OutOrStdout(), entry)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP and websocket API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger, true)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := server.New(a.assistant, a.resolver, a.concordance, server.Config{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			HistoryLimit:   cfg.Database.HistoryLimit,
			SearchLimit:    cfg.Providers.SearchLimit,
		}, server.WithLogger(logger.Named("server")))

		return srv.ListenAndServe(ctx, ":"+cfg.Server.Port)
	},
}

func init() {
	chatCmd.Flags().StringVar(&userID, "user", "", "Save the session under this user id (requires a database)")
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, logger, userID != "")
	if err != nil {
		return err
	}
	defer a.Close()

	principal := models.Principal{UserID: userID}

	color.Cyan("\nAsk about any passage, topic or Strong's number (type 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.ToLower(query) == "exit" {
			break
		}

		responseSpinner := getSpinner(" Searching the scriptures...")
		reply := answer(cmd.Context(), a, principal, query)
		responseSpinner.Finish()
		fmt.Print("\r")

		assistantPrompt("\nVerseWise: ")
		fmt.Println(reply)
	}

	return scanner.Err()
}

func answer(ctx context.Context, a *app, principal models.Principal, query string) string {
	if principal.UserID == "" {
		return a.assistant.Answer(ctx, query)
	}
	msg, err := a.assistant.Chat(ctx, principal, query)
	if err != nil {
		color.Red("Could not save this exchange: %v\n", err)
	}
	return msg.Response
}

func printVerses(w io.Writer, verses []models.VerseResult, withBook bool) {
	ref := color.New(color.FgYellow).SprintFunc()
	for _, v := range verses {
		label := strconv.Itoa(v.Verse)
		if withBook {
			label = v.Citation()
		}
		fmt.Fprintf(w, "%s %s\n", ref(label), v.Text)
	}
}

func printEntry(w io.Writer, entry *models.StrongsEntry) {
	label := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", label("Strong's"), entry.Number)
	for _, line := range [][2]string{
		{"Original Word", entry.OriginalWord},
		{"Transliteration", entry.Transliteration},
		{"Pronunciation", entry.Pronunciation},
		{"Definition", entry.Definition},
		{"KJV Translations", strings.Join(entry.Translations, ", ")},
	} {
		if line[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", label(line[0]+":"), line[1])
	}
}
