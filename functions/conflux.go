package functions

import (
	"strings"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// TrimToUpper upper-cases s and strips trailing spaces.
func TrimToUpper(s string) string {
	return strings.ToUpper(strings.TrimRight(s, " "))
}

// MachineName picks the machine name from a NetBIOS name, falling back to
// the first label of the DNS name when the NetBIOS name is empty.
func MachineName(netBios, dns string) string {
	if name := TrimToUpper(netBios); name != "" {
		return name
	}
	host, _, _ := strings.Cut(dns, ".")
	return TrimToUpper(host)
}

// newMachineName takes a NetBIOS column and a DNS column. Null inputs are
// treated as empty, so the result is never null.
func newMachineName() pipeline.ColumnFunc {
	var buffer pipeline.ColumnBuffer
	return func(source pipeline.Operator, inputs []int) (data.Batch, error) {
		if err := exactly("Conflux.NetBiosOrDnsToMachineName", 2, inputs); err != nil {
			return data.Batch{}, err
		}
		batches, err := inputBatches(source, inputs)
		if err != nil {
			return data.Batch{}, err
		}

		netBios, dns := batches[0], batches[1]
		buffer.ResetNulls()
		out := buffer.Array(data.String8, netBios.Count).([]string)
		for i := 0; i < netBios.Count; i++ {
			n, _ := textAt(netBios, i)
			d, _ := textAt(dns, i)
			out[i] = MachineName(n, d)
		}
		return buffer.Batch(out, netBios.Count), nil
	}
}
