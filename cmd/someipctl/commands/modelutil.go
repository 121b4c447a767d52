package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marmos91/someip/internal/logger"
	"github.com/marmos91/someip/pkg/someip/fibex"
)

// openModelFile resolves path against the configured search paths when it
// isn't found as given, mirroring a shell's PATH lookup.
func openModelFile(path string) (*os.File, string, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := os.Open(path)
		return f, path, err
	}
	if !filepath.IsAbs(path) && cfg != nil {
		for _, dir := range cfg.Model.SearchPaths {
			candidate := filepath.Join(dir, path)
			if _, err := os.Stat(candidate); err == nil {
				f, err := os.Open(candidate)
				return f, candidate, err
			}
		}
	}
	return nil, path, fmt.Errorf("fibex document not found: %s", path)
}

// loadModel loads and packs the FIBEX document at path, honoring the
// strict/lenient mode selected by --strict or the configuration file.
func loadModel(path string) (*fibex.Model, error) {
	f, resolved, err := openModelFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	logger.Info("loading fibex document", logger.ModelFile(resolved), logger.Strict(Flags.Strict))

	if Flags.Strict {
		return fibex.Load(f)
	}
	return fibex.TryLoad(f)
}

// findMethod resolves a service interface and one of its methods by id,
// returning a descriptive error when either lookup fails.
func findMethod(model *fibex.Model, serviceID, majorVersion, methodID int) (*fibex.ServiceInterface, *fibex.ServiceMethod, error) {
	svc := model.GetService(serviceID, majorVersion)
	if svc == nil {
		return nil, nil, fmt.Errorf("no service 0x%04X major version %d in this document", serviceID, majorVersion)
	}
	method := svc.GetMethod(methodID)
	if method == nil {
		return svc, nil, fmt.Errorf("service %q has no method/event/field 0x%04X", svc.Name, methodID)
	}
	return svc, method, nil
}
