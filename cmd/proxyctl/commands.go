package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/console"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/certificate"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/rule"
)

type command struct {
	name, short string
	data        interface{}
}

func register(parser *flags.Parser) error {
	groups := []struct {
		name, short string
		commands    []command
	}{
		{
			name:  "rule",
			short: "Manage proxy rules",
			commands: []command{
				{"list", "List rules", &ruleList{}},
				{"create", "Create a rule from a YAML form", &ruleSubmit{}},
				{"update", "Update a rule from a YAML form with an id", &ruleSubmit{update: true}},
				{"delete", "Delete a rule", &ruleDelete{}},
				{"export", "Print a stored rule as YAML", &ruleExport{}},
				{"match", "Preview which upstream serves a request", &ruleMatch{}},
			},
		},
		{
			name:  "cert",
			short: "Manage certificates",
			commands: []command{
				{"list", "List certificates", &certList{}},
				{"upload", "Upload certificate material", &certUpload{}},
				{"apply", "Request a certificate from the cloud CA", &certApply{}},
				{"renew", "Renew a cloud certificate", &certAction{action: entities.ActionRenew, cloud: true}},
				{"check", "Check a cloud certificate at the CA", &certAction{action: entities.ActionCheckStatus, cloud: true}},
				{"download", "Download cloud certificate material", &certAction{action: entities.ActionDownload, cloud: true}},
				{"rename", "Rename a certificate", &certAction{action: entities.ActionRename}},
				{"delete", "Delete a certificate", &certAction{action: entities.ActionDelete}},
			},
		},
	}

	for _, g := range groups {
		group, err := parser.AddCommand(g.name, g.short, "", &struct{}{})
		if err != nil {
			return err
		}
		for _, c := range g.commands {
			if _, err := group.AddCommand(c.name, c.short, "", c.data); err != nil {
				return err
			}
		}
	}

	_, err := parser.AddCommand("reload", "Test and reload the proxy", "", &reload{})
	return err
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cli.opts.Timeout)
}

type ruleList struct{}

func (c *ruleList) Execute([]string) error {
	ctx, cancel := requestContext()
	defer cancel()

	snap, _ := cli.console.Refresh(ctx, console.ViewRules)
	if err := snap.Err(); err != nil {
		return err
	}
	return cli.out.rules(snap.Rules())
}

type ruleSubmit struct {
	File string `short:"f" long:"file" description:"YAML rule form, - for stdin" required:"true"`

	update bool
}

func (c *ruleSubmit) Execute([]string) error {
	f, err := readForm(c.File)
	if err != nil {
		return err
	}
	if c.update && f.ID == "" {
		return fmt.Errorf("update needs an id in %s", c.File)
	}
	if !c.update {
		f.ID = ""
	}

	ctx, cancel := requestContext()
	defer cancel()

	r, err := cli.console.SubmitRule(ctx, f)
	if err != nil {
		return err
	}
	return cli.out.value(r)
}

func readForm(path string) (rule.Form, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return rule.Form{}, fmt.Errorf("failed to read rule form: %w", err)
	}

	var f rule.Form
	if err := yaml.Unmarshal(data, &f); err != nil {
		return rule.Form{}, fmt.Errorf("failed to parse rule form: %w", err)
	}
	return f, nil
}

type ruleDelete struct {
	Args struct {
		ID string `positional-arg-name:"id" required:"true"`
	} `positional-args:"yes"`
}

func (c *ruleDelete) Execute([]string) error {
	ctx, cancel := requestContext()
	defer cancel()

	if err := cli.console.DeleteRule(ctx, c.Args.ID); err != nil {
		return err
	}
	return cli.out.message("rule %s deleted", c.Args.ID)
}

type ruleExport struct {
	Args struct {
		ID string `positional-arg-name:"id" required:"true"`
	} `positional-args:"yes"`
}

func (c *ruleExport) Execute([]string) error {
	ctx, cancel := requestContext()
	defer cancel()

	r, err := cli.client.GetRule(ctx, c.Args.ID)
	if err != nil {
		return err
	}
	return yaml.NewEncoder(os.Stdout).Encode(r)
}

type ruleMatch struct {
	Path       string            `long:"path" description:"Request path" default:"/"`
	RemoteAddr string            `long:"remote-addr" description:"Request source address"`
	Headers    map[string]string `short:"H" long:"header" description:"Request header as name:value"`

	Args struct {
		ID string `positional-arg-name:"id" required:"true"`
	} `positional-args:"yes"`
}

func (c *ruleMatch) Execute([]string) error {
	ctx, cancel := requestContext()
	defer cancel()

	route, ok, err := cli.client.MatchRule(ctx, c.Args.ID, entities.RequestContext{
		Path:     c.Path,
		SourceIP: c.RemoteAddr,
		Headers:  c.Headers,
	})
	if err != nil {
		return err
	}
	if !ok {
		return cli.out.message("no upstream matches")
	}
	return cli.out.value(route)
}

type reload struct{}

func (c *reload) Execute([]string) error {
	ctx, cancel := requestContext()
	defer cancel()

	if err := cli.client.Reload(ctx); err != nil {
		return err
	}
	return cli.out.message("proxy reloaded")
}

type certList struct {
	Cloud bool `long:"cloud" description:"List the certificates known to the cloud CA"`
}

func (c *certList) Execute([]string) error {
	ctx, cancel := requestContext()
	defer cancel()

	view := console.ViewCertificates
	if c.Cloud {
		view = console.ViewCloudCertificates
	}
	cli.console.Navigate(view)

	snap, _ := cli.console.Refresh(ctx, view)
	if err := snap.Err(); err != nil {
		return err
	}
	return cli.out.certificates(snap.Certificates())
}

type certUpload struct {
	Name string `long:"name" description:"Display name, defaults to the certificate file name"`
	Cert string `long:"cert" description:"PEM certificate file" required:"true"`
	Key  string `long:"key" description:"PEM private key file" required:"true"`
}

func (c *certUpload) Execute([]string) error {
	certPEM, err := os.ReadFile(c.Cert)
	if err != nil {
		return fmt.Errorf("failed to read certificate: %w", err)
	}
	keyPEM, err := os.ReadFile(c.Key)
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}

	ctx, cancel := requestContext()
	defer cancel()

	v, err := cli.console.Upload(ctx, certificate.UploadRequest{
		Name:     c.Name,
		FileName: c.Cert,
		Cert:     string(certPEM),
		Key:      string(keyPEM),
	})
	if err != nil {
		return err
	}
	return cli.out.value(v)
}

type certApply struct {
	Domain       string `long:"domain" description:"Domain to issue for" required:"true"`
	Alias        string `long:"alias" description:"Certificate alias"`
	ValidateType string `long:"validate-type" description:"Domain validation" choice:"DNS_AUTO" choice:"DNS" choice:"FILE" default:"DNS_AUTO"` //nolint:staticcheck,lll
}

func (c *certApply) Execute([]string) error {
	ctx, cancel := requestContext()
	defer cancel()

	res, err := cli.console.Apply(ctx, cloud.ApplyRequest{
		Domain:       strings.TrimSpace(c.Domain),
		Alias:        c.Alias,
		ValidateType: cloud.ValidateType(c.ValidateType),
	})
	if err != nil {
		return err
	}
	return cli.out.value(res)
}

// certAction runs one certificate action against a certificate found in a
// fresh listing of the view owning it.
type certAction struct {
	Cloud bool `long:"cloud" description:"The id is a cloud certificate id"`

	Args struct {
		ID   string `positional-arg-name:"id" required:"true"`
		Name string `positional-arg-name:"name" description:"New name (rename only)"`
	} `positional-args:"yes"`

	action entities.Action
	cloud  bool
}

func (c *certAction) Execute([]string) error {
	ctx, cancel := requestContext()
	defer cancel()

	view := console.ViewCertificates
	if c.cloud || c.Cloud {
		view = console.ViewCloudCertificates
	}
	cli.console.Navigate(view)

	snap, _ := cli.console.Refresh(ctx, view)
	if err := snap.Err(); err != nil {
		return err
	}
	target, ok := snap.Certificate(c.Args.ID)
	if !ok {
		return fmt.Errorf("certificate %s not found in the %s list", c.Args.ID, view)
	}

	out, err := cli.console.Perform(ctx, console.ActionRequest{
		Action: c.action,
		Target: target,
		Name:   c.Args.Name,
	})
	if err != nil {
		return err
	}

	switch {
	case out.Status != nil:
		return cli.out.value(out.Status)
	case out.Renewal != nil:
		return cli.out.value(out.Renewal)
	case out.View != nil:
		return cli.out.value(out.View)
	default:
		return cli.out.message("%s %s done", c.action, c.Args.ID)
	}
}
