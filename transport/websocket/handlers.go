package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

// handleConnect - binds the connection to a session, creating one if needed.
// The ID comes from the payload, then from the session cookie.
func (that *Server) handleConnect(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if err := decodePayload(msg, &payloadReq); err != nil {
		return c.sendError(msg.Action, err)
	}

	sessionID := c.cookieID
	if payloadReq.Session != nil && payloadReq.Session.ID != "" {
		sessionID = payloadReq.Session.ID
	}

	session, err := that.gameManager.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		log.Error("failed to get or create session", "error", err)
		return c.sendError(msg.Action, err)
	}

	c.sessionID = session.ID

	log.Info("player connected", "sessionID", session.ID)

	return c.sendMessage(msg.Action, Payload{Session: session})
}

func (that *Server) handleTurn(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleTurn", "sessionID", c.sessionID)

	if c.sessionID == "" {
		return c.sendError(msg.Action, errNotConnected)
	}

	var payloadReq Payload
	if err := decodePayload(msg, &payloadReq); err != nil {
		return c.sendError(msg.Action, err)
	}

	if payloadReq.Cell == nil {
		return c.sendError(msg.Action, errMalformedPayload)
	}

	session, err := that.gameManager.MakeMove(ctx, c.sessionID, *payloadReq.Cell)
	if err != nil {
		log.Info("move rejected", "cell", payloadReq.Cell.String(), "error", err)
		return c.sendMessage(msg.Action, Payload{Session: session, Error: clientError(err)})
	}

	if err = c.sendMessage(msg.Action, Payload{Session: session, Cell: session.LastAgentMove}); err != nil {
		return err
	}

	if session.IsFinished() {
		log.Info("game over", "outcome", session.Outcome)
		return c.sendMessage(actionGameOver, Payload{Session: session, Outcome: session.Outcome})
	}

	return nil
}

func (that *Server) handleReset(ctx context.Context, c *client, msg *Message) error {
	if c.sessionID == "" {
		return c.sendError(msg.Action, errNotConnected)
	}

	session, err := that.gameManager.Reset(ctx, c.sessionID)
	if err != nil {
		return c.sendError(msg.Action, err)
	}

	return c.sendMessage(msg.Action, Payload{Session: session})
}

func decodePayload(msg *Message, payload *Payload) error {
	if len(msg.Payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return fmt.Errorf("%w: %w", errMalformedPayload, err)
	}

	return nil
}
