package ux

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/taskflow/internal/errors"
)

// RenderError prints err for a terminal user. Structured errors get their
// code, suggestions and documentation link.
func RenderError(w io.Writer, err error, styles Styles) {
	if err == nil {
		return
	}

	var tfErr *errors.TaskflowError
	if !stderrors.As(err, &tfErr) {
		fmt.Fprintln(w, styles.Error.Render("Error: ")+err.Error())
		return
	}

	fmt.Fprintf(w, "%s%s %s\n", styles.Error.Render("Error: "), tfErr.Message, styles.Muted.Render("["+string(tfErr.Code)+"]"))
	if tfErr.Cause != nil {
		fmt.Fprintln(w, styles.Muted.Render("  cause: "+tfErr.Cause.Error()))
	}
	if len(tfErr.Suggestions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.Heading.Render("Suggestions:"))
		for _, s := range tfErr.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if tfErr.DocsURL != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.Muted.Render("Documentation: "+tfErr.DocsURL))
	}
}
