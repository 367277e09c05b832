package genie

import (
	"fmt"
	"strings"
)

// formatArgs substitutes positional %s placeholders left to right.
//
// Unlike fmt.Sprintf it is tolerant by contract: extra arguments are
// ignored and placeholders beyond the argument list stay literal, so a
// template and its call site can evolve independently without leaking
// formatting artifacts into spoken output. %% escapes a literal percent.
func formatArgs(template string, args []interface{}) string {
	if len(args) == 0 || !strings.Contains(template, "%") {
		return template
	}
	var b strings.Builder
	b.Grow(len(template))
	next := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i+1 >= len(template) {
			b.WriteByte(c)
			continue
		}
		switch template[i+1] {
		case 's':
			if next < len(args) {
				b.WriteString(fmt.Sprint(args[next]))
				next++
			} else {
				b.WriteString("%s")
			}
			i++
		case '%':
			b.WriteByte('%')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
