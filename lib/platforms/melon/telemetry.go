package melon

import (
	"ticketsnap-backend/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("platforms/melon")
var dumpOutput restyutil.DumpOutput

// SetRestyDumpOutput makes clients created afterwards write their HTTP
// exchanges to `out` for debugging.
func SetRestyDumpOutput(out restyutil.DumpOutput) {
	dumpOutput = out
}
