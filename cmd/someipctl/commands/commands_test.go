package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/marmos91/someip/pkg/config"
	"github.com/marmos91/someip/pkg/someip/fibex"
)

// ============================================================================
// readPayload
// ============================================================================

func TestReadPayload_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")
	want := []byte{0x01, 0x02, 0x03}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := readPayload(path)
	if err != nil {
		t.Fatalf("readPayload() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("readPayload() = %v, want %v", got, want)
	}
}

func TestReadPayload_FromStdin(t *testing.T) {
	want := []byte{0xAA, 0xBB}
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	origStdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = origStdin }()

	go func() {
		_, _ = w.Write(want)
		_ = w.Close()
	}()

	got, err := readPayload("-")
	if err != nil {
		t.Fatalf("readPayload() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("readPayload() = %v, want %v", got, want)
	}
}

// ============================================================================
// openModelFile / loadModel
// ============================================================================

func TestOpenModelFile_DirectPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "services.xml")
	if err := os.WriteFile(path, []byte("<FIBEX/>"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	f, resolved, err := openModelFile(path)
	if err != nil {
		t.Fatalf("openModelFile() error = %v", err)
	}
	defer f.Close()
	if resolved != path {
		t.Errorf("openModelFile() resolved = %q, want %q", resolved, path)
	}
}

func TestOpenModelFile_SearchPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "services.xml"), []byte("<FIBEX/>"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	prevCfg := cfg
	cfg = &config.Config{Model: config.ModelConfig{SearchPaths: []string{dir}}}
	defer func() { cfg = prevCfg }()

	f, resolved, err := openModelFile("services.xml")
	if err != nil {
		t.Fatalf("openModelFile() error = %v", err)
	}
	defer f.Close()
	if resolved != filepath.Join(dir, "services.xml") {
		t.Errorf("openModelFile() resolved = %q, want search-path match", resolved)
	}
}

func TestOpenModelFile_NotFound(t *testing.T) {
	prevCfg := cfg
	cfg = nil
	defer func() { cfg = prevCfg }()

	_, _, err := openModelFile("does-not-exist.xml")
	if err == nil {
		t.Fatal("openModelFile() expected error, got nil")
	}
}

// ============================================================================
// findMethod
// ============================================================================

func buildTestModel(t *testing.T) *fibex.Model {
	t.Helper()
	model := fibex.NewModel()
	model.Services = []*fibex.ServiceInterface{
		{
			Name:         "Example",
			ServiceID:    0x1234,
			MajorVersion: 1,
			Methods: []*fibex.ServiceMethod{
				{ID: "m1", Name: "doThing", MethodID: 1},
			},
		},
	}
	return model
}

func TestFindMethod_Success(t *testing.T) {
	model := buildTestModel(t)
	svc, method, err := findMethod(model, 0x1234, 1, 1)
	if err != nil {
		t.Fatalf("findMethod() error = %v", err)
	}
	if svc.Name != "Example" || method.Name != "doThing" {
		t.Errorf("findMethod() = %+v / %+v, unexpected", svc, method)
	}
}

func TestFindMethod_NoService(t *testing.T) {
	model := buildTestModel(t)
	_, _, err := findMethod(model, 0xFFFF, 1, 1)
	if err == nil {
		t.Fatal("findMethod() expected error for missing service, got nil")
	}
}

func TestFindMethod_NoMethod(t *testing.T) {
	model := buildTestModel(t)
	_, _, err := findMethod(model, 0x1234, 1, 99)
	if err == nil {
		t.Fatal("findMethod() expected error for missing method, got nil")
	}
}

// ============================================================================
// TableRenderer implementations
// ============================================================================

func TestLoadResult_HeadersAndRows(t *testing.T) {
	result := loadResult{
		File: "services.xml",
		Services: []serviceSummary{
			{Name: "Example", ServiceID: 0x1234, Major: 1, Minor: 0, Methods: 3},
		},
		Types: 5,
	}

	headers := result.Headers()
	want := []string{"Service", "Name", "Major", "Minor", "Methods"}
	for i, h := range want {
		if headers[i] != h {
			t.Errorf("Headers()[%d] = %q, want %q", i, headers[i], h)
		}
	}

	rows := result.Rows()
	if len(rows) != 1 {
		t.Fatalf("Rows() len = %d, want 1", len(rows))
	}
	if rows[0][0] != "0x1234" || rows[0][1] != "Example" || rows[0][4] != "3" {
		t.Errorf("Rows()[0] = %v, unexpected", rows[0])
	}
}

func TestMethodSummary_HeadersAndRows(t *testing.T) {
	m := methodSummary{
		Service:  "0x1234 (Example, v1.0)",
		Method:   "0x0001",
		Name:     "doThing",
		Request:  "present",
		Response: "none",
	}

	if len(m.Headers()) != 2 {
		t.Fatalf("Headers() len = %d, want 2", len(m.Headers()))
	}

	rows := m.Rows()
	if len(rows) != 5 {
		t.Fatalf("Rows() len = %d, want 5", len(rows))
	}
	if rows[2][1] != "doThing" {
		t.Errorf("Rows()[2] = %v, want Name row with doThing", rows[2])
	}
}

// ============================================================================
// Root command wiring
// ============================================================================

func TestGetRootCmd_HasSubcommands(t *testing.T) {
	root := GetRootCmd()
	want := map[string]bool{
		"load": false, "inspect": false, "decode": false, "pick": false,
		"version": false, "completion": false,
	}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("GetRootCmd() missing subcommand %q", name)
		}
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	root := GetRootCmd()
	root.SetArgs([]string{"not-a-real-command"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Error("Execute() with unknown command: expected error, got nil")
	}
}
