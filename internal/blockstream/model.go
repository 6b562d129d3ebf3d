package blockstream

// AddressResponse is the subset of Blockstream's /address/{address} response
// used to derive a confirmed balance.
type AddressResponse struct {
	Address      string `json:"address"`
	ChainStats   Stats  `json:"chain_stats"`
	MempoolStats Stats  `json:"mempool_stats"`
}

// Stats holds funded/spent output sums in satoshis.
type Stats struct {
	FundedTxoSum int64 `json:"funded_txo_sum"`
	SpentTxoSum  int64 `json:"spent_txo_sum"`
	TxCount      int64 `json:"tx_count"`
}

// ConfirmedSatoshis returns the confirmed balance in satoshis.
func (r AddressResponse) ConfirmedSatoshis() int64 {
	return r.ChainStats.FundedTxoSum - r.ChainStats.SpentTxoSum
}
