package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mithrel/blockmark/pkg/api"
)

const (
	pageHeader   = "id\ttitle\tchildren\troot\n"
	exportHeader = "name\tpages\tsize\thash\timported\n"
)

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func WritePlainPages(w io.Writer, pages []api.PageInfo, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, pageHeader)
	}
	for _, p := range pages {
		root := ""
		if p.Root {
			root = "yes"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", esc(p.ID), esc(p.Title), p.Children, root)
	}
	return tw.Flush()
}

func WritePlainExports(w io.Writer, exports []api.ExportInfo, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, exportHeader)
	}
	for _, e := range exports {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
			esc(e.Name), e.Pages, e.Size, shortHash(e.Hash), e.ImportedAt.Local().Format(time.RFC3339))
	}
	return tw.Flush()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
