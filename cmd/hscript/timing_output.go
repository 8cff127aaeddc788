package main

import (
	"fmt"
	"io"

	"hscript/internal/observ"
)

// printTimings печатает сводку по фазам; для каталогов отчёты суммируются.
func printTimings(out io.Writer, reports ...observ.Report) {
	if out == nil || len(reports) == 0 {
		return
	}
	var total observ.Report
	for _, r := range reports {
		total.Merge(r)
	}
	if _, err := fmt.Fprint(out, total.Summary()); err != nil {
		panic(err)
	}
}
