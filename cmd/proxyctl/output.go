package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/certificate"
)

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, format: format}
}

// value prints a single result. Tables fall back to YAML for values.
func (p *printer) value(v interface{}) error {
	if p.format == "json" {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (p *printer) message(format string, args ...interface{}) error {
	if p.format == "table" {
		_, err := fmt.Fprintf(p.w, format+"\n", args...)
		return err
	}
	return p.value(map[string]string{"message": fmt.Sprintf(format, args...)})
}

func (p *printer) rules(rules entities.Rules) error {
	if p.format != "table" {
		return p.value(rules)
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSERVER NAME\tPORTS\tTLS\tLOCATIONS\tUPSTREAMS")
	for i := range rules {
		r := &rules[i]
		var upstreams int
		for _, loc := range r.Locations {
			upstreams += len(loc.Upstreams)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\t%d\n",
			r.ID, r.ServerName, ports(r.ListenPorts), r.HasTLS(), len(r.Locations), upstreams)
	}
	return tw.Flush()
}

func (p *printer) certificates(views []certificate.View) error {
	if p.format != "table" {
		return p.value(views)
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDOMAIN\tORIGIN\tSTATE\tEXPIRES\tDAYS\tACTIONS")
	for i := range views {
		v := &views[i]
		expires, days := "-", "-"
		if v.ExpiresAt != nil {
			expires = v.ExpiresAt.Format(time.DateOnly)
		}
		if v.DaysLeft != nil {
			days = strconv.Itoa(*v.DaysLeft)
		}
		actions := make([]string, 0, len(v.Actions))
		for _, a := range v.Actions {
			actions = append(actions, a.String())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Name, v.Domain, v.Origin, v.State, expires, days, strings.Join(actions, ","))
	}
	return tw.Flush()
}

func ports(ps []int) string {
	s := make([]string, 0, len(ps))
	for _, p := range ps {
		s = append(s, strconv.Itoa(p))
	}
	return strings.Join(s, ",")
}
