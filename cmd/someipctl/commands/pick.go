package commands

import (
	"fmt"

	"github.com/marmos91/someip/internal/cliutil/prompt"
	"github.com/marmos91/someip/pkg/someip/fibex"
	"github.com/marmos91/someip/pkg/someip/fibex2som"
	"github.com/marmos91/someip/pkg/someip/som"
	"github.com/spf13/cobra"
)

var pickCmd = &cobra.Command{
	Use:   "pick <fibex-file>",
	Short: "Interactively browse a FIBEX document's services and methods",
	Long: `pick loads a FIBEX document and walks the user through selecting a
service, then one of its methods, events, or fields, then prints that
selection's codec tree. Optionally decodes a payload file against it.`,
	Args: cobra.ExactArgs(1),
	RunE: runPick,
}

func runPick(cmd *cobra.Command, args []string) error {
	model, err := loadModel(args[0])
	if err != nil {
		return err
	}
	if len(model.Services) == 0 {
		return fmt.Errorf("%s declares no services", args[0])
	}

	svc, err := pickService(model.Services)
	if err != nil {
		return err
	}
	if len(svc.Methods) == 0 {
		return fmt.Errorf("service %q declares no methods, events, or fields", svc.Name)
	}

	method, err := pickMethod(svc.Methods)
	if err != nil {
		return err
	}

	direction, decl, err := pickDirection(method)
	if err != nil {
		return err
	}

	tree, err := fibex2som.Build(decl)
	if err != nil {
		return fmt.Errorf("building %s schema: %w", direction, err)
	}

	fmt.Printf("\n%s 0x%04X (%s, v%d.%d) / method 0x%04X %q, %s:\n\n",
		svc.Name, svc.ServiceID, svc.Name, svc.MajorVersion, svc.MinorVersion, method.MethodID, method.Name, direction)
	fmt.Println(som.Render(tree))

	payloadPath, err := prompt.InputOptional("Payload file to decode against this schema")
	if err != nil {
		if prompt.IsAborted(err) {
			return nil
		}
		return err
	}
	if payloadPath == "" {
		return nil
	}

	payload, err := readPayload(payloadPath)
	if err != nil {
		return err
	}
	cursor := som.NewCursor(payload)
	if _, err := tree.Parse(cursor); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	fmt.Println("\nDecoded value:")
	fmt.Println(som.Render(tree))
	return nil
}

func pickService(services []*fibex.ServiceInterface) (*fibex.ServiceInterface, error) {
	options := make([]prompt.SelectOption, len(services))
	for i, svc := range services {
		options[i] = prompt.SelectOption{
			Label:       fmt.Sprintf("0x%04X  %s  (v%d.%d)", svc.ServiceID, svc.Name, svc.MajorVersion, svc.MinorVersion),
			Description: fmt.Sprintf("%d method(s)/event(s)/field(s)", len(svc.Methods)),
		}
	}
	i, err := prompt.SelectIndex("Service", options)
	if err != nil {
		return nil, err
	}
	return services[i], nil
}

func pickMethod(methods []*fibex.ServiceMethod) (*fibex.ServiceMethod, error) {
	options := make([]prompt.SelectOption, len(methods))
	for i, m := range methods {
		options[i] = prompt.SelectOption{
			Label:       fmt.Sprintf("0x%04X  %s", m.MethodID, m.Name),
			Description: methodShape(m),
		}
	}
	i, err := prompt.SelectIndex("Method", options)
	if err != nil {
		return nil, err
	}
	return methods[i], nil
}

func methodShape(m *fibex.ServiceMethod) string {
	switch {
	case m.Request != nil && m.Response != nil:
		return "request + response"
	case m.Request != nil:
		return "request only (fire-and-forget or notifier)"
	case m.Response != nil:
		return "response only (getter/notification)"
	default:
		return "no payload"
	}
}

// pickDirection resolves which of a method's two possible payloads to
// inspect, prompting only when both are present.
func pickDirection(m *fibex.ServiceMethod) (string, *fibex.TypeDeclaration, error) {
	switch {
	case m.Request != nil && m.Response == nil:
		return "request", m.Request, nil
	case m.Request == nil && m.Response != nil:
		return "response", m.Response, nil
	case m.Request == nil && m.Response == nil:
		return "", nil, fmt.Errorf("method %q carries no payload to inspect", m.Name)
	}

	choice, err := prompt.SelectString("Direction", []string{"request", "response"})
	if err != nil {
		return "", nil, err
	}
	if choice == "request" {
		return "request", m.Request, nil
	}
	return "response", m.Response, nil
}
