package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-eavform/pkg/form"
	"github.com/goliatone/go-eavform/pkg/loader"
	"github.com/goliatone/go-eavform/pkg/orchestrator"
	"github.com/goliatone/go-eavform/pkg/renderers/tui"
	"github.com/goliatone/go-eavform/pkg/renderers/vanilla"
	"github.com/goliatone/go-eavform/pkg/store/sqlite"
)

var payloadFlag = &cli.StringFlag{Name: "payload", Required: true, Usage: "definition payload (JSON or YAML)"}

var settingsFlag = &cli.StringFlag{Name: "settings", Usage: "attribute settings JSON file"}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Render a payload as an HTML form",
		Flags: []cli.Flag{
			payloadFlag,
			settingsFlag,
			&cli.StringFlag{Name: "output", Usage: "output file (stdout if empty)"},
			&cli.StringFlag{Name: "action", Usage: "form action URL"},
			&cli.StringFlag{Name: "title", Usage: "form title"},
			&cli.StringFlag{Name: "templates", Usage: "directory overriding the built-in templates"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			o, _, err := openSession(c)
			if err != nil {
				return err
			}
			renderer, err := vanilla.New(vanilla.WithTemplatesDir(c.String("templates")))
			if err != nil {
				return err
			}
			html, err := renderer.Render(ctx, o, vanilla.RenderOptions{
				Action: c.String("action"),
				Title:  c.String("title"),
			})
			if err != nil {
				return err
			}
			return writeOutput(c.String("output"), html)
		},
	}
}

func propertiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "properties",
		Usage: "Print the properties view of a payload",
		Flags: []cli.Flag{
			payloadFlag,
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			payload, err := readPayload(c.String("payload"))
			if err != nil {
				return err
			}
			props := instanceOf(payload).Properties()
			if c.Bool("json") {
				return printJSON(props)
			}
			printProperties(props)
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate the stored values of a payload against its definition",
		Flags: []cli.Flag{payloadFlag, settingsFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			o, _, err := openSession(c)
			if err != nil {
				return err
			}
			if o.IsValid() {
				fmt.Println("valid")
				return nil
			}
			errs := o.Errors()
			rows := make([][2]string, 0, len(errs))
			for _, code := range sortedKeys(errs) {
				for _, message := range errs[code] {
					rows = append(rows, [2]string{code, message})
				}
			}
			printKV(rows)
			return cli.Exit(fmt.Sprintf("invalid: first error on %q", o.Focus()), 1)
		},
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Edit a payload interactively in the terminal",
		Flags: []cli.Flag{
			payloadFlag,
			settingsFlag,
			&cli.StringFlag{Name: "db-path", Usage: "SQLite database holding the values (payload values are used when empty)"},
			&cli.StringFlag{Name: "owner", Usage: "owner id (defaults to the payload ownerId)"},
			&cli.StringFlag{Name: "format", Value: string(tui.OutputFormatPrettyText), Usage: "output format: json, form or pretty"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			payload, err := readPayload(c.String("payload"))
			if err != nil {
				return err
			}
			if owner := c.String("owner"); owner != "" {
				payload.OwnerID = owner
			}

			var store *sqlite.Store
			if path := c.String("db-path"); path != "" {
				db, err := sqlite.Open(path)
				if err != nil {
					return err
				}
				if err := sqlite.RunMigrations(ctx, db); err != nil {
					return err
				}
				store = sqlite.New(db)
				payload.Values, err = store.Load(ctx, payload.OwnerID, payload.FormDefinition)
				if err != nil {
					return err
				}
			}

			o, err := newOrchestrator(c, payload)
			if err != nil {
				return err
			}
			renderer, err := tui.New(tui.WithOutputFormat(tui.OutputFormat(c.String("format"))))
			if err != nil {
				return err
			}
			if err := renderer.Edit(ctx, o); err != nil {
				if errors.Is(err, tui.ErrAborted) {
					return cli.Exit("aborted", 130)
				}
				return err
			}

			if store != nil {
				confirmed, err := store.Save(ctx, payload.OwnerID, payload.FormDefinition, o.Values(), sqlite.Replacing(o.Controlled()...))
				if err != nil {
					return err
				}
				o.Commit(confirmed)
			}

			if tui.OutputFormat(c.String("format")) == tui.OutputFormatJSON {
				return printJSON(o.Instance().Values())
			}
			printProperties(o.Properties())
			return nil
		},
	}
}

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "List the definitions found in a directory of payloads",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Required: true, Usage: "directory of JSON/YAML payloads"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, err := loader.LoadFS(os.DirFS(c.String("dir")))
			if err != nil {
				return err
			}
			rows := make([][]string, 0)
			for _, key := range catalog.Keys() {
				payload, _ := catalogPayload(catalog, key)
				source, _ := catalog.Source(payload.FormDefinition.Type, payload.FormDefinition.Code)
				rows = append(rows, []string{key, fmt.Sprint(len(payload.FormDefinition.Attributes)), fmt.Sprint(len(payload.Values)), source})
			}
			printTable([]string{"DEFINITION", "ATTRIBUTES", "VALUES", "FILE"}, rows)
			return nil
		},
	}
}

func importOpenAPICommand() *cli.Command {
	return &cli.Command{
		Name:  "import-openapi",
		Usage: "Convert an OpenAPI component schema into a definition payload",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "spec", Required: true, Usage: "OpenAPI 3 document (JSON or YAML)"},
			&cli.StringFlag{Name: "schema", Required: true, Usage: "component schema name"},
			&cli.StringFlag{Name: "type", Value: "openapi", Usage: "definition type"},
			&cli.BoolFlag{Name: "yaml", Usage: "emit YAML instead of JSON"},
			&cli.StringFlag{Name: "output", Usage: "output file (stdout if empty)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			data, err := os.ReadFile(c.String("spec"))
			if err != nil {
				return fmt.Errorf("read spec: %w", err)
			}
			def, err := loader.FromOpenAPIDocument(ctx, data, c.String("schema"), loader.WithDefinitionType(c.String("type")))
			if err != nil {
				return err
			}
			payload := loader.Payload{FormDefinition: def}

			var out []byte
			if c.Bool("yaml") {
				out, err = yaml.Marshal(payload)
			} else {
				out, err = jsonMarshal(payload)
			}
			if err != nil {
				return err
			}
			return writeOutput(c.String("output"), out)
		},
	}
}

func openSession(c *cli.Command) (*orchestrator.Orchestrator, loader.Payload, error) {
	payload, err := readPayload(c.String("payload"))
	if err != nil {
		return nil, loader.Payload{}, err
	}
	o, err := newOrchestrator(c, payload)
	return o, payload, err
}

func newOrchestrator(c *cli.Command, payload loader.Payload) (*orchestrator.Orchestrator, error) {
	var options []orchestrator.Option
	if path := c.String("settings"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
		settings, err := orchestrator.ParseAttributeSettings(string(raw))
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithSettings(settings))
	}
	return orchestrator.New(instanceOf(payload), options...), nil
}

func readPayload(path string) (loader.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return loader.Payload{}, fmt.Errorf("read payload: %w", err)
	}
	return loader.DecodePayload(data)
}

func instanceOf(payload loader.Payload) *form.Instance {
	return form.New(payload.FormDefinition, form.WithOwner(payload.OwnerID), form.WithValues(payload.Values))
}

func catalogPayload(catalog *loader.Catalog, key string) (loader.Payload, bool) {
	definitionType, code, ok := strings.Cut(key, "/")
	if !ok {
		return loader.Payload{}, false
	}
	return catalog.Payload(definitionType, code)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
