package support

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/docscan/cmd/docscan/cmd"
	"github.com/MeKo-Tech/docscan/internal/testutil"
	"github.com/cucumber/godog"
)

// sampleText returns the fixture text for a sample name.
func sampleText(name string) (string, error) {
	for _, s := range testutil.Samples() {
		if s.Name == name {
			return s.Text, nil
		}
	}
	return "", fmt.Errorf("unknown sample %q", name)
}

func (testCtx *TestContext) aDocumentContainingTheSample(filename, sample string) error {
	text, err := sampleText(sample)
	if err != nil {
		return err
	}
	return testCtx.writeDocument(filename, text)
}

func (testCtx *TestContext) aDocumentContaining(filename string, content *godog.DocString) error {
	return testCtx.writeDocument(filename, content.Content+"\n")
}

func (testCtx *TestContext) writeDocument(filename, text string) error {
	path := testCtx.Path(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o600)
}

func (testCtx *TestContext) theSampleOnStdin(sample string) error {
	text, err := sampleText(sample)
	if err != nil {
		return err
	}
	testCtx.Stdin = text
	return nil
}

// iRunCommand executes a docscan command line in-process.
func (testCtx *TestContext) iRunCommand(command string) error {
	command = testCtx.substituteVariables(command)
	testCtx.LastCommand = command

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}
	if parts[0] == "docscan" {
		parts = parts[1:]
	}

	cmd.ResetConfig()
	defer cmd.ResetConfig()

	root := cmd.GetRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(testCtx.Stdin))
	root.SetArgs(parts)

	err := root.Execute()
	testCtx.LastStdout = stdout.String()
	testCtx.LastStderr = stderr.String()
	testCtx.LastError = err
	testCtx.LastExitCode = 0
	if err != nil {
		testCtx.LastExitCode = 1
	}
	return nil
}

func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command %q failed: %w\nOutput: %s",
			testCtx.LastCommand, testCtx.LastError, testCtx.combinedOutput())
	}
	return nil
}

func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command %q succeeded unexpectedly\nOutput: %s", testCtx.LastCommand, testCtx.combinedOutput())
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(testCtx.combinedOutput(), expected) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expected, testCtx.combinedOutput())
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldNotContain(unexpected string) error {
	if strings.Contains(testCtx.LastStdout, unexpected) {
		return fmt.Errorf("output unexpectedly contains '%s'\nActual output: %s", unexpected, testCtx.LastStdout)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldBe(expected string) error {
	if strings.TrimSpace(testCtx.LastStdout) != expected {
		return fmt.Errorf("expected output %q, got %q", expected, strings.TrimSpace(testCtx.LastStdout))
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	var v interface{}
	if err := json.Unmarshal([]byte(testCtx.LastStdout), &v); err != nil {
		return fmt.Errorf("output is not valid JSON: %w\nOutput: %s", err, testCtx.LastStdout)
	}
	return nil
}

func (testCtx *TestContext) theJSONFieldShouldBe(path, expected string) error {
	return jsonFieldEquals(testCtx.LastStdout, path, expected)
}

func (testCtx *TestContext) theErrorShouldMention(expected string) error {
	if testCtx.LastError == nil {
		return errors.New("expected an error but command succeeded")
	}
	if !strings.Contains(testCtx.LastError.Error(), expected) {
		return fmt.Errorf("error %q does not mention %q", testCtx.LastError.Error(), expected)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldExist(filename string) error {
	path := testCtx.substituteVariables(filename)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file %s does not exist: %w", path, err)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldContain(filename, expected string) error {
	b, err := os.ReadFile(testCtx.substituteVariables(filename))
	if err != nil {
		return err
	}
	if !strings.Contains(string(b), expected) {
		return fmt.Errorf("file %s does not contain %q\nContent: %s", filename, expected, string(b))
	}
	return nil
}

// jsonFieldEquals looks up a dot separated path in a JSON document and
// compares its value, rendered as text, to expected. "null" matches JSON
// null.
func jsonFieldEquals(doc, path, expected string) error {
	var v interface{}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return fmt.Errorf("invalid JSON: %w\n%s", err, doc)
	}
	for _, key := range strings.Split(path, ".") {
		m, ok := v.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%s: %q is not an object", path, key)
		}
		if v, ok = m[key]; !ok {
			return fmt.Errorf("%s: key %q not found", path, key)
		}
	}

	var got string
	switch val := v.(type) {
	case nil:
		got = "null"
	case string:
		got = val
	default:
		got = fmt.Sprint(val)
	}
	if got != expected {
		return fmt.Errorf("%s: expected %q, got %q", path, expected, got)
	}
	return nil
}

// RegisterCommonSteps registers the document and command steps.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a document "([^"]*)" containing the ([a-z_]+) sample$`, testCtx.aDocumentContainingTheSample)
	sc.Step(`^a document "([^"]*)" containing:$`, testCtx.aDocumentContaining)
	sc.Step(`^the ([a-z_]+) sample on stdin$`, testCtx.theSampleOnStdin)

	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)

	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the output should be "([^"]*)"$`, testCtx.theOutputShouldBe)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, testCtx.theJSONFieldShouldBe)
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)

	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldContain)
}
