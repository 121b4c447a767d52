package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/marmos91/someip/pkg/someip/fibex"
	"github.com/marmos91/someip/pkg/someip/fibex2som"
	"github.com/marmos91/someip/pkg/someip/som"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <fibex-file> <payload-file>",
	Short: "Decode a raw payload against a method's request or response schema",
	Long: `decode builds the codec tree for --service/--major/--method's
--direction (request by default, or response) and parses <payload-file>
against it, printing the resulting value tree. Pass - for <payload-file>
to read the payload from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().Uint16("service", 0, "Service identifier (decimal or 0x-hex)")
	decodeCmd.Flags().Int("major", 1, "Service major version")
	decodeCmd.Flags().Uint16("method", 0, "Method, event, or field identifier (decimal or 0x-hex)")
	decodeCmd.Flags().String("direction", "request", "Which side of the method to decode against (request|response)")
	_ = decodeCmd.MarkFlagRequired("service")
	_ = decodeCmd.MarkFlagRequired("method")
}

func runDecode(cmd *cobra.Command, args []string) error {
	serviceID, _ := cmd.Flags().GetUint16("service")
	major, _ := cmd.Flags().GetInt("major")
	methodID, _ := cmd.Flags().GetUint16("method")
	direction, _ := cmd.Flags().GetString("direction")

	var decl func(*fibex.ServiceMethod) *fibex.TypeDeclaration
	switch direction {
	case "request":
		decl = func(m *fibex.ServiceMethod) *fibex.TypeDeclaration { return m.Request }
	case "response":
		decl = func(m *fibex.ServiceMethod) *fibex.TypeDeclaration { return m.Response }
	default:
		return fmt.Errorf("--direction must be request or response, got %q", direction)
	}

	model, err := loadModel(args[0])
	if err != nil {
		return err
	}

	_, method, err := findMethod(model, int(serviceID), major, int(methodID))
	if err != nil {
		return err
	}

	typeDecl := decl(method)
	if typeDecl == nil {
		return fmt.Errorf("method %q has no %s payload", method.Name, direction)
	}

	tree, err := fibex2som.Build(typeDecl)
	if err != nil {
		return fmt.Errorf("building %s schema: %w", direction, err)
	}

	payload, err := readPayload(args[1])
	if err != nil {
		return err
	}

	cursor := som.NewCursor(payload)
	consumed, err := tree.Parse(cursor)
	if err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}

	fmt.Println(som.Render(tree))
	if consumed < len(payload) {
		fmt.Fprintf(os.Stderr, "warning: %d trailing byte(s) not consumed\n", len(payload)-consumed)
	}
	return nil
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
