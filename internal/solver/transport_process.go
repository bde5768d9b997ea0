package solver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"optalcp/internal/logging"
)

// ProcessTransport speaks the wire protocol over a spawned child
// process's stdio: one JSON line per message on stdout, one JSON line
// per command on stdin, free-form diagnostic text on stderr. It is
// grounded on the same stdio-pipe plumbing codeNERD's MCP stdio
// transport uses (StdioTransport.Connect/readStdout/readStderr), but
// replaces request/response correlation by id with the solver
// protocol's unsolicited event stream.
type ProcessTransport struct {
	command string
	args    []string

	mu    sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser

	cb TransportCallbacks

	closeOnce sync.Once
	closed    chan struct{}
	closeErr  error
}

// NewProcessTransport builds a transport that will run command with
// args, delivering events through cb.
func NewProcessTransport(command string, args []string, cb TransportCallbacks) *ProcessTransport {
	return &ProcessTransport{
		command: command,
		args:    args,
		cb:      cb,
		closed:  make(chan struct{}),
	}
}

// Start spawns the process and its stdout/stderr reader goroutines.
// The session is considered fully closed only once both the stdout
// reader and the process itself have reported done (spec.md §5's
// double-ready rule for async completion) — tracked here with an
// errgroup so the first of the two failures wins as the close error.
func (t *ProcessTransport) Start(ctx context.Context) error {
	log := logging.Get(logging.CategoryTransport)

	cmd := exec.CommandContext(ctx, t.command, t.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("solver: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("solver: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("solver: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("solver: start %s: %w", t.command, err)
	}
	log.Info("spawned solver process: %s %v (pid %d)", t.command, t.args, cmd.Process.Pid)

	t.mu.Lock()
	t.cmd = cmd
	t.stdin = stdin
	t.mu.Unlock()

	go t.readStderr(stderr)

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error { return t.readStdout(stdout) })
	g.Go(cmd.Wait)

	go func() {
		err := g.Wait()
		t.finish(err)
	}()

	return nil
}

func (t *ProcessTransport) readStdout(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if t.cb.OnMessage != nil {
			t.cb.OnMessage(append([]byte(nil), line...))
		}
	}
	if err := scanner.Err(); err != nil {
		if t.cb.OnError != nil {
			t.cb.OnError(fmt.Errorf("solver: reading stdout: %w", err))
		}
		return err
	}
	return nil
}

func (t *ProcessTransport) readStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if t.cb.OnWarning != nil {
			t.cb.OnWarning(scanner.Text())
		}
	}
}

// Send writes line followed by a newline to the process's stdin. A
// broken pipe is swallowed rather than surfaced: the solver may have
// already exited, in which case OnClose (not Send) is how the caller
// learns about it (spec.md §4.10.1).
func (t *ProcessTransport) Send(line []byte) error {
	t.mu.Lock()
	stdin := t.stdin
	t.mu.Unlock()
	if stdin == nil {
		return errors.New("solver: transport not started")
	}
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')
	if _, err := stdin.Write(buf); err != nil {
		if errors.Is(err, syscall.EPIPE) {
			return nil
		}
		return fmt.Errorf("solver: write stdin: %w", err)
	}
	return nil
}

// Close kills the process if still running and waits for the close
// signal the Start goroutines produce.
func (t *ProcessTransport) Close() error {
	t.mu.Lock()
	cmd := t.cmd
	stdin := t.stdin
	t.mu.Unlock()
	if stdin != nil {
		_ = stdin.Close()
	}
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	<-t.closed
	return t.closeErr
}

func (t *ProcessTransport) finish(err error) {
	t.closeOnce.Do(func() {
		t.closeErr = err
		close(t.closed)
		if t.cb.OnClose != nil {
			t.cb.OnClose(err)
		}
	})
}
