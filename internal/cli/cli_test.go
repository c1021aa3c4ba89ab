package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"katalog/internal/cli"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(args ...string) (string, error) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run("version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "katalog "))
}

func TestValidateCommand_Valid(t *testing.T) {
	out, err := run("validate", "--id", "100", "--name", "BMW M5 CS", "--price", "2300.99", "--stock", "3500")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "The Product Id is valid.")
	assert.Contains(t, lines[1], "The Product Name is valid.")
	assert.Contains(t, lines[2], "The Item Price is valid.")
	assert.Contains(t, lines[3], "The Stock Amount is valid.")
}

func TestValidateCommand_Invalid(t *testing.T) {
	out, err := run("validate", "--id", "5", "--name", "Mice@81", "--price", "8300", "--stock", "950000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 field(s) failed")
	assert.Contains(t, out, "The Product Id is not valid.")
	assert.Contains(t, out, "Product name can only contain letters, digits, and spaces.")
	assert.Contains(t, out, "The Item Price is not valid.")
	assert.Contains(t, out, "The Stock Amount is not valid.")
}

func TestValidateStockCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{"increase valid", []string{"increase", "--current", "10", "--amount", "50"}, false, "Stock increase is valid."},
		{"increase at limit", []string{"increase", "--current", "800000", "--amount", "1"}, true, "Stock amount exceeds maximum stock limit."},
		{"decrease valid", []string{"decrease", "--current", "9", "--amount", "1"}, false, "Stock decrease is valid."},
		{"decrease below minimum", []string{"decrease", "--current", "100", "--amount", "110"}, true, "Stock amount falls below minimum stock limit."},
		{"decrease negative", []string{"decrease", "--current", "300000", "--amount=-4"}, true, "Stock decrease amount must be greater than zero."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(append([]string{"validate-stock"}, tt.args...)...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestValidateStockCommand_BadArgs(t *testing.T) {
	_, err := run("validate-stock", "transfer", "--current", "10", "--amount", "5")
	assert.Error(t, err)

	_, err = run("validate-stock", "increase", "--amount", "5")
	assert.Error(t, err)
}
