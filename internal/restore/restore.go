// Package restore materializes files from a Backup Artifact back onto disk.
// The flow is a state machine (select, confirm, parse, replace, amend,
// continue) driven by an abstract Prompter, so tests feed scripted answers
// instead of a console.
package restore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-ports/scriptpack/internal/backup"
	"github.com/go-ports/scriptpack/internal/config"
	"github.com/go-ports/scriptpack/internal/document"
)

// ErrNoArtifacts is returned when the backup directory holds nothing to
// restore. Callers treat it as a fatal setup error.
var ErrNoArtifacts = errors.New("no backup artifacts found")

// Prompter supplies one line of user input per call.
type Prompter interface {
	ReadLine(prompt string) (string, error)
}

// IOPrompter reads lines from an io.Reader, echoing prompts to a writer.
type IOPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewIOPrompter wraps r/w (stdin/stdout in the CLI) as a Prompter.
func NewIOPrompter(r io.Reader, w io.Writer) *IOPrompter {
	return &IOPrompter{in: bufio.NewReader(r), out: w}
}

// ReadLine implements Prompter.
func (p *IOPrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Session is one interactive restore run over a backup directory.
type Session struct {
	// WorkDir is the directory files are restored into; its "scripts"
	// subdirectory is the only other writable location.
	WorkDir   string
	BackupDir string
	Cfg       *config.Config
	In        Prompter
	Out       io.Writer

	artifacts []string
	selected  string
	files     []document.ParsedFile
}

type state int

const (
	stateSelectArtifact state = iota
	stateConfirmOverwrite
	stateParse
	stateReplace
	stateAmendName
	stateContinueOrStop
	stateDone
)

// Run drives the state machine until completion. No filesystem mutation
// happens before the confirmation phrase has been matched.
func (s *Session) Run() error {
	for st := stateSelectArtifact; st != stateDone; {
		next, err := s.step(st)
		if err != nil {
			return err
		}
		st = next
	}
	return nil
}

func (s *Session) step(st state) (state, error) {
	switch st {
	case stateSelectArtifact:
		return s.selectArtifact()
	case stateConfirmOverwrite:
		return s.confirmOverwrite()
	case stateParse:
		return s.parse()
	case stateReplace:
		return s.replace()
	case stateAmendName:
		return s.amendName()
	case stateContinueOrStop:
		return s.continueOrStop()
	default:
		return stateDone, nil
	}
}

// ---------------------------------------------------------------------------
// States
// ---------------------------------------------------------------------------

func (s *Session) selectArtifact() (state, error) {
	artifacts, err := backup.List(s.BackupDir)
	if err != nil {
		return stateDone, err
	}
	s.artifacts = artifacts

	switch len(artifacts) {
	case 0:
		return stateDone, fmt.Errorf("%w in %q", ErrNoArtifacts, s.BackupDir)
	case 1:
		s.selected = artifacts[0]
		fmt.Fprintf(s.Out, "Only one backup found: %q. Selecting it by default.\n", filepath.Base(s.selected))
		return stateConfirmOverwrite, nil
	}

	fmt.Fprintln(s.Out, "Multiple backups found:")
	for i, a := range artifacts {
		fmt.Fprintf(s.Out, "%d) %s\n", i+1, filepath.Base(a))
	}
	for {
		prompt := fmt.Sprintf("Enter the number of the backup you wish to restore (1-%d): ", len(artifacts))
		answer, err := s.In.ReadLine(prompt)
		if err != nil {
			return stateDone, fmt.Errorf("restore: read selection: %w", err)
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(answer))
		if convErr != nil {
			fmt.Fprintln(s.Out, "Invalid input. Please enter a number.")
			continue
		}
		if n < 1 || n > len(artifacts) {
			fmt.Fprintf(s.Out, "Please enter a number between 1 and %d.\n", len(artifacts))
			continue
		}
		s.selected = artifacts[n-1]
		fmt.Fprintf(s.Out, "Selected backup: %q.\n", filepath.Base(s.selected))
		return stateConfirmOverwrite, nil
	}
}

func (s *Session) confirmOverwrite() (state, error) {
	prompt := fmt.Sprintf(
		"Are you sure you want to overwrite the existing scripts with the ones in the selected backup? Type %q to proceed: ",
		s.Cfg.ConfirmPhrase,
	)
	for {
		answer, err := s.In.ReadLine(prompt)
		if err != nil {
			return stateDone, fmt.Errorf("restore: read confirmation: %w", err)
		}
		if strings.TrimSpace(answer) == s.Cfg.ConfirmPhrase {
			fmt.Fprintln(s.Out, "Confirmation received. Proceeding with script replacement.")
			return stateParse, nil
		}
		fmt.Fprintf(s.Out, "Confirmation failed. Please type %q to proceed.\n", s.Cfg.ConfirmPhrase)
	}
}

func (s *Session) parse() (state, error) {
	data, err := os.ReadFile(s.selected)
	if err != nil {
		return stateDone, fmt.Errorf("restore: read backup %q: %w", s.selected, err)
	}
	s.files = document.Parse(string(data))
	if len(s.files) == 0 {
		fmt.Fprintln(s.Out, "No valid scripts found in the backup.")
		return stateAmendName, nil
	}
	fmt.Fprintf(s.Out, "Found %d scripts to replace.\n", len(s.files))
	return stateReplace, nil
}

func (s *Session) replace() (state, error) {
	scriptsDir := filepath.Join(s.WorkDir, document.ScriptsSubdir)
	managedDirs := []string{s.WorkDir, scriptsDir}

	for _, f := range s.files {
		if s.Cfg.IsRestoreExcluded(f.Name) {
			fmt.Fprintf(s.Out, "Skipping excluded file: %q.\n", f.Name)
			continue
		}

		var targetDir string
		switch f.Subdir {
		case "":
			targetDir = s.WorkDir
		case document.ScriptsSubdir:
			targetDir = scriptsDir
		default:
			// Only the two managed directories are writable; anything else
			// in a location descriptor is refused.
			fmt.Fprintf(s.Out, "Skipping %q: location %q is not a managed directory.\n", f.Name, f.Subdir)
			continue
		}

		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			fmt.Fprintf(s.Out, "Failed to create directory %q: %v\n", targetDir, err)
			continue
		}

		// Delete same-named files found by a non-recursive listing of the
		// managed directories only; never a full tree search.
		for _, dir := range managedDirs {
			existing := filepath.Join(dir, f.Name)
			if _, err := os.Stat(existing); err == nil {
				if err := os.Remove(existing); err != nil {
					fmt.Fprintf(s.Out, "Failed to delete %q: %v\n", existing, err)
					continue
				}
				fmt.Fprintf(s.Out, "Deleted existing script: %s\n", existing)
			}
		}

		target := filepath.Join(targetDir, f.Name)
		if err := os.WriteFile(target, []byte(f.Content+"\n"), 0o644); err != nil {
			fmt.Fprintf(s.Out, "Failed to write %q: %v\n", target, err)
			continue
		}
		fmt.Fprintf(s.Out, "Created/Updated script: %s\n", target)
	}
	fmt.Fprintln(s.Out, "Script restoration completed.")
	return stateAmendName, nil
}

func (s *Session) amendName() (state, error) {
	answer, err := s.In.ReadLine("Append a comment to the backup's filename (leave empty to skip): ")
	if err != nil {
		return stateDone, fmt.Errorf("restore: read comment: %w", err)
	}
	if strings.TrimSpace(answer) != "" {
		renamed, err := backup.Amend(s.selected, answer)
		switch {
		case err != nil:
			fmt.Fprintf(s.Out, "Failed to rename backup: %v\n", err)
		case renamed != s.selected:
			fmt.Fprintf(s.Out, "Renamed backup to %q.\n", filepath.Base(renamed))
			s.selected = renamed
		default:
			fmt.Fprintln(s.Out, "Rename skipped.")
		}
	}
	return stateContinueOrStop, nil
}

func (s *Session) continueOrStop() (state, error) {
	remaining, err := backup.List(s.BackupDir)
	if err != nil {
		return stateDone, err
	}
	remaining = without(remaining, s.selected)
	if len(remaining) == 0 {
		fmt.Fprintln(s.Out, "No other backups remain.")
		return stateDone, nil
	}
	for {
		answer, err := s.In.ReadLine(fmt.Sprintf("%d other backups remain. Restore another? (y/n): ", len(remaining)))
		if err != nil {
			return stateDone, fmt.Errorf("restore: read continuation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return stateSelectArtifact, nil
		case "n", "no":
			return stateDone, nil
		}
		fmt.Fprintln(s.Out, "Please answer y or n.")
	}
}

func without(paths []string, drop string) []string {
	out := paths[:0]
	for _, p := range paths {
		if p != drop {
			out = append(out, p)
		}
	}
	return out
}
