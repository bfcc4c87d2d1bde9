package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"github.com/gigflow/gigflow-backend/internal/ws"
)

// Notifier pushes real-time events to per-user websocket rooms. Every
// method is best-effort: failures are logged at most and never surface
// to the operation that triggered the event. Recipients without a live
// connection simply miss the event.
type Notifier struct {
	hub   *ws.Hub
	users repository.UserRepository
}

func New(hub *ws.Hub, users repository.UserRepository) *Notifier {
	return &Notifier{hub: hub, users: users}
}

// notification mirrors the payload the frontend's notification panel
// consumes.
type notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Gig     *model.Gig  `json:"gig,omitempty"`
	Bid     interface{} `json:"bid,omitempty"`
	BidID   uint64      `json:"bidId,omitempty"`
}

type messageEvent struct {
	ConversationID uint64      `json:"conversationId"`
	Message        interface{} `json:"message,omitempty"`
	MessageID      uint64      `json:"messageId,omitempty"`
}

// GigPosted broadcasts a new posting to everyone except the owner.
func (n *Notifier) GigPosted(gig *model.Gig) {
	n.broadcast(ws.Event{Type: "notification", Data: notification{
		Type:    "gig_posted",
		Message: fmt.Sprintf("New gig posted: %s", gig.Title),
		Gig:     gig,
	}}, gig.OwnerID)
}

// BidReceived notifies the gig owner, then broadcasts bid activity to
// everyone except the owner and the bidder.
func (n *Notifier) BidReceived(gig *model.Gig, bidderID uint64, bidderName string, bid interface{}) {
	n.hub.SendToUser(gig.OwnerID, ws.Event{Type: "notification", Data: notification{
		Type:    "bid_received",
		Message: fmt.Sprintf("%s placed a bid on %s", bidderName, gig.Title),
		Gig:     gig,
		Bid:     bid,
	}})
	n.broadcast(ws.Event{Type: "notification", Data: notification{
		Type:    "gig_new_bid",
		Message: fmt.Sprintf("New bid activity on %s", gig.Title),
		Gig:     gig,
		Bid:     bid,
	}}, gig.OwnerID, bidderID)
}

// Hired notifies the winning freelancer and confirms to the owner.
func (n *Notifier) Hired(gig *model.Gig, freelancerID uint64, freelancerName string, bid interface{}) {
	n.hub.SendToUser(freelancerID, ws.Event{Type: "hired", Data: notification{
		Type:    "hired",
		Message: fmt.Sprintf("You have been hired for %s!", gig.Title),
		Gig:     gig,
		Bid:     bid,
	}})
	n.hub.SendToUser(gig.OwnerID, ws.Event{Type: "notification", Data: notification{
		Type:    "gig_assigned",
		Message: fmt.Sprintf("You hired %s for %s", freelancerName, gig.Title),
		Gig:     gig,
		Bid:     bid,
	}})
}

func (n *Notifier) BidWithdrawn(gig *model.Gig, bidID uint64) {
	n.hub.SendToUser(gig.OwnerID, ws.Event{Type: "notification", Data: notification{
		Type:    "bid_withdrawn",
		Message: fmt.Sprintf("A freelancer withdrew their bid on %s", gig.Title),
		Gig:     gig,
		BidID:   bidID,
	}})
}

func (n *Notifier) NewMessage(recipientID, conversationID uint64, msg interface{}) {
	n.hub.SendToUser(recipientID, ws.Event{Type: "message:new", Data: messageEvent{
		ConversationID: conversationID,
		Message:        msg,
	}})
}

func (n *Notifier) MessageUpdated(recipientID, conversationID uint64, msg interface{}) {
	n.hub.SendToUser(recipientID, ws.Event{Type: "message:updated", Data: messageEvent{
		ConversationID: conversationID,
		Message:        msg,
	}})
}

func (n *Notifier) MessageDeleted(recipientID, conversationID, messageID uint64) {
	n.hub.SendToUser(recipientID, ws.Event{Type: "message:deleted", Data: messageEvent{
		ConversationID: conversationID,
		MessageID:      messageID,
	}})
}

// broadcast fans out to every known user except the excluded IDs. The
// recipient set is read off the request path with its own short
// deadline so a slow store cannot stall or fail the triggering
// operation.
func (n *Notifier) broadcast(ev ws.Event, exclude ...uint64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		ids, err := n.users.ListIDs(ctx, exclude...)
		if err != nil {
			log.Printf("notify: broadcast recipient lookup failed: %v", err)
			return
		}
		n.hub.SendToUsers(ids, ev)
	}()
}
