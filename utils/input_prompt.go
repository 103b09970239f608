package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/meysamhadeli/resman/constants/lipgloss"
)

// InputPromptWithContext prompts the user with context cancellation support.
// It returns io.EOF when the input is exhausted.
func InputPromptWithContext(ctx context.Context, reader *bufio.Reader) (string, error) {
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		fmt.Print(lipgloss.BlueSky.Render("> "))

		userInput, err := reader.ReadString('\n')

		if err != nil {
			if err == io.EOF && strings.TrimSpace(userInput) != "" {
				inputChan <- strings.TrimSpace(userInput)
			} else if err == io.EOF {
				errChan <- io.EOF
			} else {
				errChan <- fmt.Errorf("error reading input: %w", err)
			}
			return
		}

		inputChan <- strings.TrimSpace(userInput)
	}()

	// Wait for either input or context cancellation
	select {
	case <-ctx.Done():
		fmt.Println() // Print newline for clean exit
		return "", ctx.Err()
	case err := <-errChan:
		return "", err
	case input := <-inputChan:
		return input, nil
	}
}

// GracefulShutdown waits for ctx to end, runs cleanup and cancels the session.
func GracefulShutdown(ctx context.Context, cancel context.CancelFunc, cleanup func()) {
	<-ctx.Done()
	cleanup()
	cancel()
}
