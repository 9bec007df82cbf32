package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/admitdesk/admitdesk/internal/session"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx := context.Background()

	fs := flag.NewFlagSet("counsel", flag.ExitOnError)
	dataDir := fs.String("data", "", "Path to knowledge-base data directory (default: ./data)")
	storeDir := fs.String("store", "", "Path to conversation/user store directory (default: ./memory_storage)")
	backend := fs.String("backend", "", "Persistence backend: file or sqlite (default: file)")
	sessionID := fs.String("session", "", "Resume an existing session instead of starting a new one")
	watch := fs.Bool("watch", true, "Reload knowledge-base files when they change on disk")

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	env, err := prepareRuntimeEnv(ctx, runtimeOptions{
		DataDir:  *dataDir,
		StoreDir: *storeDir,
		Backend:  *backend,
		Watch:    *watch,
	})
	if err != nil {
		log.Fatalf("failed to prepare runtime environment: %v", err)
	}
	defer env.Close()

	runInteractive(ctx, env.Manager, *sessionID)
}

func runInteractive(ctx context.Context, mgr *session.Manager, sessionID string) {
	log.Println("🎓 Starting admission counselor (interactive mode)")

	if sessionID == "" {
		id, err := mgr.CreateSession(ctx, "")
		if err != nil {
			log.Fatalf("failed to create session: %v", err)
		}
		sessionID = id
		log.Printf("Session ready: %s", sessionID)
	} else {
		log.Printf("Resuming session: %s", sessionID)
	}

	fmt.Println("Type your question, or 'exit' to end the conversation.")

	s := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !s.Scan() {
			break
		}
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" || line == "bye" {
			break
		}

		reply, err := mgr.ProcessMessage(ctx, sessionID, line)
		if err != nil {
			if errors.Is(err, session.ErrSessionEnded) {
				log.Printf("session %s has already ended", sessionID)
				break
			}
			log.Printf("error: %v", err)
			continue
		}

		fmt.Printf("counselor> %s\n\n", reply)
	}

	if err := mgr.End(ctx, sessionID); err != nil {
		log.Printf("failed to end session: %v", err)
	}
	log.Printf("Session %s ended. Goodbye!", sessionID)
}
