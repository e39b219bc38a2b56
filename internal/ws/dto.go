package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// MatchID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type    string `json:"type"`    // subscribe | unsubscribe | ping
	MatchID string `json:"matchId"` // requerido em subscribe/unsubscribe
}

// LiveUpdate representa um snapshot de partida enviado para clientes WebSocket
type LiveUpdate struct {
	MatchID string      `json:"matchId"`
	Payload interface{} `json:"payload"`
}
