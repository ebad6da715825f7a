// Package console reads interactive commands from standard input and prints
// the replies. It is one of the two long-running actors: the other is the
// scheduler's poll loop.
package console

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
)

// CommandHandler turns one normalized command line into a printable reply.
// An empty reply prints nothing.
type CommandHandler func(command string) string

// Reader drives the interactive session over In. Out receives replies.
type Reader struct {
	In  io.Reader
	Out io.Writer
}

// Run consumes command lines until "withdraw" arrives or In is exhausted.
// Every other non-empty line is passed to handler and the reply is printed.
// On "withdraw" the onWithdraw callback fires (it cancels the shared context,
// stopping the poller) and Run returns.
//
// Reading stdin is not interruptible, so a shutdown initiated elsewhere only
// takes effect here after the next line; main does not wait on this actor
// when the shutdown came from a signal.
func (r *Reader) Run(handler CommandHandler, onWithdraw func()) {
	scanner := bufio.NewScanner(r.In)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "withdraw") {
			log.Println("[INFO] withdraw requested, shutting down")
			onWithdraw()
			return
		}
		if reply := handler(line); reply != "" {
			fmt.Fprintln(r.Out, reply)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[ERROR] read command input: %v", err)
	}
}
