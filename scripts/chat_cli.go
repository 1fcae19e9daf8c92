// Interactive console for the chat workflow. Runs the same step loop as the
// server against an in-memory file system, so provider behavior can be
// checked without Postgres or a browser.
//
// Usage: go run scripts/chat_cli.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"uigen/internal/config"
	"uigen/internal/domain/models/llm"
	domainllm "uigen/internal/llm"
	"uigen/internal/llm/factory"
	"uigen/internal/llm/prompts"
	"uigen/internal/llm/tools"
	"uigen/internal/vfs"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorRed   = "\033[31m"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	provider, modelConfig, err := factory.SelectProvider(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "provider setup failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%schat console%s provider=%s model=%s (type 'ls' to inspect files, 'quit' to exit)\n",
		colorCyan, colorReset, provider.Name(), modelConfig.Model)

	fs := vfs.New()
	registry := tools.BuildForFileSystem(fs)
	var transcript []llm.Message

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s> %s", colorGreen, colorReset)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return
		case "ls":
			printTree(fs)
			continue
		}

		transcript = append(transcript, llm.Message{Role: llm.RoleUser, Content: line})
		transcript = runTurn(context.Background(), provider, modelConfig, registry, transcript)
		fmt.Println()
	}
}

func runTurn(
	ctx context.Context,
	provider domainllm.Provider,
	modelConfig *domainllm.ModelConfig,
	registry *tools.Registry,
	transcript []llm.Message,
) []llm.Message {
	for step := 0; step < modelConfig.MaxSteps; step++ {
		events, err := provider.Stream(ctx, &domainllm.Request{
			Model:     modelConfig.Model,
			System:    prompts.Generation,
			Messages:  transcript,
			Tools:     registry.Definitions(),
			MaxTokens: modelConfig.MaxTokens,
		})
		if err != nil {
			fmt.Printf("%sstream error: %v%s\n", colorRed, err, colorReset)
			return transcript
		}

		assistant := llm.Message{Role: llm.RoleAssistant}
		for event := range events {
			switch {
			case event.Err != nil:
				fmt.Printf("%sstream error: %v%s\n", colorRed, event.Err, colorReset)
				return transcript
			case event.TextDelta != "":
				assistant.Content += event.TextDelta
				fmt.Print(event.TextDelta)
			case event.ToolCall != nil:
				assistant.ToolCalls = append(assistant.ToolCalls, *event.ToolCall)
			}
		}
		transcript = append(transcript, assistant)

		if len(assistant.ToolCalls) == 0 {
			return transcript
		}

		for _, call := range assistant.ToolCalls {
			fmt.Printf("\n%s[tool] %s%s\n", colorCyan, call.Name, colorReset)
		}
		for _, result := range registry.ExecuteAll(ctx, assistant.ToolCalls) {
			transcript = append(transcript, llm.Message{
				Role:       llm.RoleTool,
				Content:    result.Content,
				ToolCallID: result.ID,
				IsError:    result.IsError,
			})
		}
	}
	return transcript
}

func printTree(fs *vfs.FileSystem) {
	children, err := fs.ListDirectory("/")
	if err != nil {
		fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
		return
	}
	for _, child := range children {
		name := child.Name
		if child.Type == vfs.TypeDirectory {
			name += "/"
		}
		fmt.Println(name)
	}
}
