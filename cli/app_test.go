package cli

import (
	"bytes"
	"testing"

	"go.viam.com/test"
)

func TestAlignCommand(t *testing.T) {
	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out

	err := app.Run([]string{"scanalign", "align", "../registration/testdata/report.txt"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "distinct points: 79")
	test.That(t, out.String(), test.ShouldContainSubstring, "max scanner spread: 3621")
	test.That(t, out.String(), test.ShouldContainSubstring, "scanner 0 at (0,0,0)")
}

func TestAlignCommandUsage(t *testing.T) {
	app := NewApp()
	app.Writer = &bytes.Buffer{}

	err := app.Run([]string{"scanalign", "align"})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "exactly one scan report")

	err = app.Run([]string{"scanalign", "align", "does-not-exist.txt"})
	test.That(t, err, test.ShouldNotBeNil)
}
