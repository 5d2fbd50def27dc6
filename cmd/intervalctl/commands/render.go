package commands

import (
	"fmt"
	"io"
	"net/netip"

	"github.com/hansthienpondt/nipam/pkg/table"
	"gopkg.in/yaml.v3"

	"github.com/henderiw/intervaltree/internal/config"
	"github.com/henderiw/intervaltree/pkg/iprange"
	"github.com/henderiw/intervaltree/pkg/itable"
	"k8s.io/apimachinery/pkg/labels"
)

type entryView struct {
	Interval string            `yaml:"interval,omitempty"`
	Range    string            `yaml:"range,omitempty"`
	Labels   map[string]string `yaml:"labels,omitempty"`
}

func intervalView(e itable.Entry[int64]) entryView {
	return entryView{Interval: e.Interval().String(), Labels: e.Labels()}
}

func intervalViews(entries itable.Entries[int64]) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, intervalView(e))
	}
	return views
}

func rangeViews(entries iprange.Entries) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView{Range: iprange.RangeOf(e).String(), Labels: e.Labels()})
	}
	return views
}

func routeView(r table.Route) entryView {
	return entryView{Range: r.Prefix().String(), Labels: r.Labels()}
}

type printer struct {
	w      io.Writer
	format string
}

func (a *app) printer(w io.Writer) printer {
	return printer{w: w, format: a.cfg.Output}
}

func (p printer) entries(views []entryView) error {
	if p.format == config.OutputYAML {
		return p.yaml(views)
	}
	for _, v := range views {
		if err := p.entry(v); err != nil {
			return err
		}
	}
	return nil
}

func (p printer) entry(v entryView) error {
	if p.format == config.OutputYAML {
		return p.yaml(v)
	}
	name := v.Interval
	if v.Range != "" {
		name = v.Range
	}
	if len(v.Labels) == 0 {
		_, err := fmt.Fprintln(p.w, name)
		return err
	}
	_, err := fmt.Fprintf(p.w, "%s %s\n", name, labels.Set(v.Labels).String())
	return err
}

// value prints a single named result.
func (p printer) value(key string, v any) error {
	if p.format == config.OutputYAML {
		return p.yaml(map[string]any{key: v})
	}
	_, err := fmt.Fprintln(p.w, v)
	return err
}

func (p printer) addr(key string, addr netip.Addr) error {
	return p.value(key, addr.String())
}

func (p printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
