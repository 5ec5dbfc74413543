package socket

import (
	"log"
)

// Broadcaster provides high-level methods for broadcasting events
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// ============================================
// Notification Broadcasting
// ============================================

// SendNotification sends a notification to a specific member
func (b *Broadcaster) SendNotification(memberID string, notification map[string]interface{}) {
	b.hub.SendToMember(memberID, MessageNotification, notification)
}

// SendNotificationCount updates notification count for a member
func (b *Broadcaster) SendNotificationCount(memberID string, total, unread int) {
	b.hub.SendToMember(memberID, MessageNotificationCount, map[string]interface{}{
		"total":  total,
		"unread": unread,
	})
}

// SendNotificationRead tells a member's other sessions a notification was read
func (b *Broadcaster) SendNotificationRead(memberID, notificationID string) {
	b.hub.SendToMember(memberID, MessageNotificationRead, map[string]interface{}{
		"notificationId": notificationID,
	})
}

// ============================================
// Member Broadcasting
// ============================================

// BroadcastMemberCreated broadcasts a new member to all clients
func (b *Broadcaster) BroadcastMemberCreated(member map[string]interface{}, excludeMemberID string) {
	b.hub.SendToRoom("members", MessageMemberCreated, member, excludeMemberID)
}

// BroadcastMemberUpdated broadcasts member field changes to all clients
func (b *Broadcaster) BroadcastMemberUpdated(member map[string]interface{}, changes []string, changedBy string) {
	payload := map[string]interface{}{
		"member":        member,
		"changedFields": changes,
		"changedBy":     changedBy,
	}

	log.Printf("📡 BroadcastMemberUpdated: memberId=%v, changedBy=%s", member["id"], changedBy)

	b.hub.SendToRoom("members", MessageMemberUpdated, payload, changedBy)
}

// BroadcastMemberDeleted broadcasts member removal to all clients
func (b *Broadcaster) BroadcastMemberDeleted(memberID string, excludeMemberID string) {
	b.hub.SendToRoom("members", MessageMemberDeleted, map[string]interface{}{
		"memberId": memberID,
	}, excludeMemberID)
}

// ============================================
// Status Request Broadcasting
// ============================================

// SendStatusRequestCreated notifies the target member of a pending request
func (b *Broadcaster) SendStatusRequestCreated(targetID string, request map[string]interface{}) {
	b.hub.SendToMember(targetID, MessageStatusRequestCreated, request)
}

// SendStatusRequestResolved notifies the initiator of the outcome
func (b *Broadcaster) SendStatusRequestResolved(initiatorID string, request map[string]interface{}) {
	b.hub.SendToMember(initiatorID, MessageStatusRequestResolved, request)
}

// ============================================
// Event Broadcasting
// ============================================

// BroadcastEventCreated broadcasts a new event to all clients
func (b *Broadcaster) BroadcastEventCreated(event map[string]interface{}, excludeMemberID string) {
	b.hub.SendToRoom("events", MessageEventCreated, event, excludeMemberID)
}

// BroadcastEventUpdated broadcasts event changes to all clients
func (b *Broadcaster) BroadcastEventUpdated(event map[string]interface{}, excludeMemberID string) {
	b.hub.SendToRoom("events", MessageEventUpdated, event, excludeMemberID)
}

// BroadcastEventDeleted broadcasts event removal to all clients
func (b *Broadcaster) BroadcastEventDeleted(eventID string, excludeMemberID string) {
	b.hub.SendToRoom("events", MessageEventDeleted, map[string]interface{}{
		"eventId": eventID,
	}, excludeMemberID)
}

// ============================================
// Post Broadcasting
// ============================================

// BroadcastPostCreated broadcasts a new forum post to all clients
func (b *Broadcaster) BroadcastPostCreated(post map[string]interface{}, excludeMemberID string) {
	b.hub.SendToRoom("posts", MessagePostCreated, post, excludeMemberID)
}

// BroadcastPostUpdated broadcasts post changes to all clients
func (b *Broadcaster) BroadcastPostUpdated(post map[string]interface{}, excludeMemberID string) {
	b.hub.SendToRoom("posts", MessagePostUpdated, post, excludeMemberID)
}

// BroadcastPostDeleted broadcasts post removal to all clients
func (b *Broadcaster) BroadcastPostDeleted(postID string, excludeMemberID string) {
	b.hub.SendToRoom("posts", MessagePostDeleted, map[string]interface{}{
		"postId": postID,
	}, excludeMemberID)
}
