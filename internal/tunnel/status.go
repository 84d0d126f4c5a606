package tunnel

import (
	"context"
	"strings"

	"github.com/salmonumbrella/tunnels-cli/internal/config"
	"github.com/salmonumbrella/tunnels-cli/internal/output"
	"github.com/salmonumbrella/tunnels-cli/internal/procs"
)

// StatusDataset builds one status record per configured tunnel: name, pid,
// process state, and the process's socket endpoints. Inactive tunnels get a
// null pid and connections and the status "Inactive". Records follow the
// configured tunnel order.
func (m *Manager) StatusDataset(ctx context.Context, tunnels []config.Tunnel) (output.Dataset, error) {
	infos, err := m.list(ctx)
	if err != nil {
		return nil, err
	}

	ds := make(output.Dataset, 0, len(tunnels))
	for i := range tunnels {
		t := &tunnels[i]
		ds = append(ds, m.statusRecord(ctx, t, infos))
	}
	return ds, nil
}

func (m *Manager) statusRecord(ctx context.Context, t *config.Tunnel, infos []procs.Info) output.Record {
	tag := Tag(t)
	for i := range infos {
		if !strings.Contains(infos[i].Cmdline, tag) {
			continue
		}
		info := &infos[i]

		connections := output.Null()
		// Connection listing needs elevated access on some platforms;
		// a pid and state are still worth showing without it.
		if conns, err := m.conns(ctx, info.PID); err == nil && len(conns) > 0 {
			connections = output.String(strings.Join(conns, "\n"))
		}

		return output.Record{
			{Name: "name", Value: output.String(t.Name)},
			{Name: "pid", Value: output.Int(int64(info.PID))},
			{Name: "status", Value: output.String(info.Status)},
			{Name: "connections", Value: connections},
		}
	}

	return output.Record{
		{Name: "name", Value: output.String(t.Name)},
		{Name: "pid", Value: output.Null()},
		{Name: "status", Value: output.String("Inactive")},
		{Name: "connections", Value: output.Null()},
	}
}
