// Command kioskctl is a small interactive driver for the kiosk client
// library, standing in for the out-of-scope demonstration program: it
// connects, prints status, and can issue one command per invocation.
// It is deliberately thin -- the demo state machine it's modeled after
// (otiKioskDemo.c's ST_INIT/ST_IDLE/ST_TRANS/ST_TRANS_COMPLETE loop) is
// not part of this library's scope.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oti-tech/kiosk-client-go/internal/klog"
	"github.com/oti-tech/kiosk-client-go/kiosk"
)

func main() {
	var (
		useTCP    bool
		host      string
		socketDir string
		command   string
		line1     string
		line2     string
	)
	flag.BoolVar(&useTCP, "tcp", false, "connect over TCP instead of Unix domain sockets")
	flag.StringVar(&host, "host", "", "TCP host (only with -tcp)")
	flag.StringVar(&socketDir, "socket-dir", "", "UDS base directory (only without -tcp)")
	flag.StringVar(&command, "command", "status", "one of: status, show-message, kiosk-id, versions, cancel")
	flag.StringVar(&line1, "line1", "Hello", "first line for show-message")
	flag.StringVar(&line2, "line2", "World", "second line for show-message")
	flag.Parse()

	logger := klog.New(os.Stderr, klog.LevelInfo)

	opts := []kiosk.Opt{kiosk.WithLogger(logger)}
	if useTCP {
		opts = append(opts, kiosk.WithTCP(host, 0, 0))
	} else {
		opts = append(opts, kiosk.WithUnixSocketDir(socketDir))
	}

	cl, err := kiosk.New(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kioskctl: %v\n", err)
		os.Exit(1)
	}

	cl.RegisterTransactionCompleteCallback(func(tc kiosk.TransactionComplete) {
		logger.Info("transaction complete", "status", tc.Status, "ref", tc.TransactionReference)
	})
	cl.RegisterReaderMessageCallback(func(index int, l1, l2 string) {
		logger.Info("reader message", "index", index, "line1", l1, "line2", l2)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// give the channel workers a moment to connect before issuing the
	// requested command.
	time.Sleep(200 * time.Millisecond)

	if err := runCommand(ctx, cl, command, line1, line2); err != nil {
		fmt.Fprintf(os.Stderr, "kioskctl: %v\n", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = cl.Close(shutdownCtx)
}

func runCommand(ctx context.Context, cl *kiosk.Client, command, line1, line2 string) error {
	switch command {
	case "status":
		status, rc := cl.GetStatus(ctx)
		fmt.Printf("status=%s rc=%s\n", status, rc)
	case "show-message":
		rc := cl.ShowMessage(ctx, line1, line2)
		fmt.Printf("rc=%s\n", rc)
	case "kiosk-id":
		id, rc := cl.GetKioskID(ctx)
		fmt.Printf("id=%q rc=%s\n", id, rc)
	case "versions":
		kv, rc := cl.GetKioskVersion(ctx)
		fmt.Printf("kiosk_version=%q rc=%s\n", kv, rc)
		rv, rc := cl.GetReaderVersion(ctx)
		fmt.Printf("reader_version=%q rc=%s\n", rv, rc)
	case "cancel":
		result, rc := cl.CancelTransaction(ctx)
		fmt.Printf("result=%d rc=%s\n", result, rc)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}
