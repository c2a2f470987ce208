package ledger

// Partition agrupa os registros de um escopo (uma run ou o histórico de runs)
type Partition struct {
	Picks        []Pick
	Transactions []Transaction
}

// Snapshot é a leitura consistente do histórico de um usuário entregue pelo storage
type Snapshot struct {
	Picks        []Pick
	Transactions []Transaction
	ActiveRun    *Run
}

// PartitionByRun agrupa picks e transações pelo RunID.
// Registros sem run (anteriores ao sistema de runs) ficam de fora.
func PartitionByRun(picks []Pick, txs []Transaction) map[string]Partition {
	out := make(map[string]Partition)
	for _, p := range picks {
		if p.RunID == "" {
			continue
		}
		part := out[p.RunID]
		part.Picks = append(part.Picks, p)
		out[p.RunID] = part
	}
	for _, t := range txs {
		if t.RunID == "" {
			continue
		}
		part := out[t.RunID]
		part.Transactions = append(part.Transactions, t)
		out[t.RunID] = part
	}
	return out
}

// ActiveRun devolve a run ativa, ou nil.
// Dados malformados com mais de uma run ativa resolvem para a iniciada por último.
func ActiveRun(runs []Run) *Run {
	var active *Run
	for i := range runs {
		r := runs[i]
		if !r.IsActive {
			continue
		}
		if active == nil || r.StartedAt.After(active.StartedAt) {
			active = &r
		}
	}
	return active
}

// RunPartition devolve os registros da run ativa; ok=false quando não há run ativa
func (s Snapshot) RunPartition() (Partition, bool) {
	if s.ActiveRun == nil {
		return Partition{}, false
	}
	return s.scope(func(runID string) bool { return runID == s.ActiveRun.ID }), true
}

// Lifetime devolve a união de todas as runs (RunID não vazio)
func (s Snapshot) Lifetime() Partition {
	return s.scope(func(runID string) bool { return runID != "" })
}

func (s Snapshot) scope(keep func(runID string) bool) Partition {
	var part Partition
	for _, p := range s.Picks {
		if keep(p.RunID) {
			part.Picks = append(part.Picks, p)
		}
	}
	for _, t := range s.Transactions {
		if keep(t.RunID) {
			part.Transactions = append(part.Transactions, t)
		}
	}
	return part
}
