package format

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Pager pipes rendered output through an external paging program. Used for
// batch output on a terminal only; follow mode always writes directly.
type Pager struct {
	cmd *exec.Cmd
	in  io.WriteCloser
}

// StartPager launches $PAGER (default "less -R") with its stdout and stderr
// connected to the terminal, and returns a Pager to write through.
func StartPager() (*Pager, error) {
	name := os.Getenv("PAGER")
	var args []string
	if name == "" {
		name, args = "less", []string{"-R"}
	} else {
		fields := strings.Fields(name)
		name, args = fields[0], fields[1:]
	}

	cmd := exec.Command(name, args...) // #nosec G204 -- $PAGER is the user's own choice
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("connecting to pager: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting pager %s: %w", name, err)
	}
	return &Pager{cmd: cmd, in: in}, nil
}

// Write implements io.Writer.
func (p *Pager) Write(b []byte) (int, error) {
	return p.in.Write(b)
}

// Close ends the input stream and waits for the pager to exit.
func (p *Pager) Close() error {
	p.in.Close()
	return p.cmd.Wait()
}
