// widget is a terminal rendition of the embeddable chat widget. It runs the
// conversation engine locally and forwards messages and leads to a gateway.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/client"
	"github.com/zhouzirui/smartchat/backend/internal/config"
	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
	"github.com/zhouzirui/smartchat/backend/internal/service/conversation"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	server     string
	configPath string
	company    string
	welcome    string
	replyDelay time.Duration
	offline    bool
	verbose    bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("widget", pflag.ContinueOnError)
	flagSet.StringVar(&opts.server, "server", "http://localhost:3001", "gateway base URL")
	flagSet.StringVar(&opts.configPath, "config", "", "widget YAML config file")
	flagSet.StringVar(&opts.company, "company", "", "company name shown in the header")
	flagSet.StringVar(&opts.welcome, "welcome", "", "welcome message")
	flagSet.DurationVar(&opts.replyDelay, "reply-delay", 0, "delay before the bot answers")
	flagSet.BoolVar(&opts.offline, "offline", false, "keep the transcript local, do not contact the gateway")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log forwarding results")

	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(args []string, in io.Reader, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	_ = godotenv.Load()

	cfg, err := config.LoadWidgetConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.company != "" {
		cfg.CompanyName = opts.company
	}
	if opts.welcome != "" {
		cfg.WelcomeMessage = opts.welcome
	}
	if opts.replyDelay > 0 {
		cfg.ReplyDelay = opts.replyDelay
	}

	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		gw    conversation.Gateway
		leads leadLister
	)
	if !opts.offline {
		remote := client.New(opts.server, nil)
		gw, leads = remote, remote
	}

	view := newTerminalView(out, cfg.CompanyName)
	engine := conversation.NewEngine(ctx, gw, conversation.Options{
		WelcomeMessage: cfg.WelcomeMessage,
		ReplyDelay:     cfg.ReplyDelay,
		Logger:         logger,
		OnChange:       view.render,
	})
	defer engine.Dispose()

	con := &console{engine: engine, leads: leads, view: view}

	view.banner()
	if err := engine.Open(); err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				engine.Wait()
				return nil
			}
			quit, err := con.handleLine(ctx, line)
			if err != nil {
				view.notice(err.Error())
			}
			if quit {
				return nil
			}
		}
	}
}

var errOffline = errors.New("no gateway in offline mode")

type leadLister interface {
	ListLeads(ctx context.Context) ([]chat.LeadRecord, error)
}

// console routes terminal lines to the engine. leads is nil when offline.
type console struct {
	engine *conversation.Engine
	leads  leadLister
	view   *terminalView
}

// handleLine maps one line of terminal input onto widget actions.
func (c *console) handleLine(ctx context.Context, line string) (bool, error) {
	engine := c.engine
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "/quit":
		return true, nil
	case trimmed == "/leads":
		if c.leads == nil {
			return false, errOffline
		}
		records, err := c.leads.ListLeads(ctx)
		if err != nil {
			return false, err
		}
		c.view.leadList(records)
		return false, nil
	case trimmed == "/open":
		return false, engine.Open()
	case trimmed == "/close":
		return false, engine.Close()
	case strings.HasPrefix(trimmed, "/email"):
		if err := engine.SetEmail(strings.TrimSpace(strings.TrimPrefix(trimmed, "/email"))); err != nil {
			return false, err
		}
		return false, engine.SubmitEmail()
	}

	if err := engine.SetInput(line); err != nil {
		return false, err
	}
	err := engine.HandleKey("Enter")
	if errors.Is(err, conversation.ErrEmptyInput) {
		return false, nil
	}
	return false, err
}
