package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/codelens/internal/assist"
	"github.com/codelens/internal/config"
	"github.com/codelens/internal/conversation"
	"github.com/codelens/internal/proxy"
	"github.com/codelens/pkg/models"
)

// AskCommand returns the ask command
func AskCommand() *cli.Command {
	return &cli.Command{
		Name:  "ask",
		Usage: "Ask the AI assistant about a piece of code",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read the code selection from `FILE` instead of stdin",
			},
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Language hint for the selection",
			},
			&cli.StringSliceFlag{
				Name:  "context-file",
				Usage: "Additional open file to include as cross-file context (repeatable)",
			},
		},
		ArgsUsage: "QUESTION",
		Action:    runAsk,
	}
}

func runAsk(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: question")
	}
	question := c.Args().Get(0)

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	code, err := readSelection(c.String("file"))
	if err != nil {
		return err
	}

	language := c.String("language")
	if language == "" {
		language = cfg.General.Language
	}

	// One-shot conversation: the store still owns the thread so a future
	// interactive mode can resume it.
	store := conversation.NewStore()
	store.SetCredential(cfg.AI.APIKey)
	store.SetLanguage(language)
	thread := store.CreateThread(code, nil)

	for _, path := range c.StringSlice("context-file") {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read context file %s: %w", path, err)
		}
		store.AddOpenFile(models.OpenFile{Name: path, Content: string(content)})
	}

	snap, err := store.SnapshotForThread(thread.ID)
	if err != nil {
		return err
	}
	if err := store.AppendMessage(thread.ID, conversation.RoleUser, question); err != nil {
		return err
	}

	service := assist.NewService(proxy.NewClient(cfg.Proxy.URL), assist.Config{
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	})

	response, err := service.SendMessage(c.Context, assist.Request{
		CodeContext: snap.CodeContext,
		UserMessage: question,
		History:     snap.History,
		OpenFiles:   snap.OpenFiles,
		Language:    snap.Language,
		Credential:  snap.Credential,
	})
	if err != nil {
		return err
	}

	if err := store.AppendMessage(thread.ID, conversation.RoleAssistant, response); err != nil {
		return err
	}

	fmt.Println(response)
	return nil
}

func readSelection(path string) (string, error) {
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(content), nil
	}

	info, err := os.Stdin.Stat()
	if err == nil && (info.Mode()&os.ModeCharDevice) == 0 {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(content), nil
	}

	return "", fmt.Errorf("no code selection: pass --file or pipe code on stdin")
}
