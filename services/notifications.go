package services

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/store"
)

// NotifyPostLiked pushes a notification to the post's author after someone
// likes their post. Runs fire-and-forget; failures are logged and dropped.
func NotifyPostLiked(st store.Store, postID, likerID string) {
	ctx := context.Background()

	post, ok := fetchPost(ctx, st, postID)
	if !ok {
		return
	}
	if post.AuthorID == likerID {
		return
	}

	likerName := displayNameOf(ctx, st, likerID)

	title := likerName + " liked your post"
	body := truncateBody(post.Content)
	data := map[string]string{
		"type":          "post_like",
		"post_id":       postID,
		"liker_id":      likerID,
		"post_owner_id": post.AuthorID,
	}

	sendToUser(ctx, st, post.AuthorID, title, body, data)
}

// NotifyPostCommented pushes a notification to the post's author after
// someone comments on their post.
func NotifyPostCommented(st store.Store, postID, commenterID, commentText string) {
	ctx := context.Background()

	post, ok := fetchPost(ctx, st, postID)
	if !ok {
		return
	}
	if post.AuthorID == commenterID {
		return
	}

	commenterName := displayNameOf(ctx, st, commenterID)

	title := commenterName + " commented on your post"
	body := truncateBody(commentText)
	data := map[string]string{
		"type":          "post_comment",
		"post_id":       postID,
		"commenter_id":  commenterID,
		"post_owner_id": post.AuthorID,
	}

	sendToUser(ctx, st, post.AuthorID, title, body, data)
}

func truncateBody(body string) string {
	if len(body) > 100 {
		return body[:97] + "..."
	}
	return body
}

func fetchPost(ctx context.Context, st store.Store, postID string) (models.Post, bool) {
	doc, err := st.Get(ctx, store.PostsCollection, postID)
	if err != nil {
		log.Printf("[FCM] Error fetching post %s for notification: %v", postID, err)
		return models.Post{}, false
	}
	return models.PostFromDocument(doc.ID, doc.Data), true
}

func displayNameOf(ctx context.Context, st store.Store, uid string) string {
	doc, err := st.Get(ctx, store.UsersCollection, uid)
	if err != nil {
		log.Printf("[FCM] Error fetching profile for %s: %v", uid, err)
		return "Someone"
	}
	profile := models.ProfileFromDocument(doc.Data)
	if profile.DisplayName == "" {
		return "Someone"
	}
	return profile.DisplayName
}

func sendToUser(ctx context.Context, st store.Store, uid, title, body string, data map[string]string) {
	doc, err := st.Get(ctx, store.UsersCollection, uid)
	if err != nil {
		log.Printf("[FCM] Error fetching tokens for %s: %v", uid, err)
		return
	}
	tokens := models.ProfileFromDocument(doc.Data).FCMTokens
	if len(tokens) == 0 {
		log.Printf("[FCM] No tokens registered for user %s", uid)
		return
	}

	successCount, failureCount, err := SendMultipleNotifications(ctx, st, uid, tokens, title, body, data)
	if err != nil {
		log.Printf("[FCM] Error sending notification to %s: %v", uid, err)
		return
	}

	log.Printf("[FCM] Notification sent to %s: %d successful, %d failed", uid, successCount, failureCount)
}

// SendMultipleNotifications multicasts to the user's device tokens and
// unregisters tokens the provider reports as dead.
func SendMultipleNotifications(
	ctx context.Context,
	st store.Store,
	uid string,
	tokens []string,
	title, body string,
	data map[string]string,
) (int, int, error) {

	client, err := GetMessagingClient()
	if err != nil {
		return 0, 0, err
	}

	log.Printf(
		"[FCM] Sending multicast | tokens=%d title=%q",
		len(tokens),
		title,
	)

	message := &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:   data,
		Tokens: tokens,
	}

	response, err := client.SendEachForMulticast(ctx, message)
	if err != nil {
		log.Printf("[FCM][ERROR] Multicast send failed entirely: %v", err)
		return 0, 0, err
	}

	log.Printf(
		"[FCM] Multicast result | success=%d failure=%d",
		response.SuccessCount,
		response.FailureCount,
	)

	for i, resp := range response.Responses {
		if resp.Success {
			continue
		}

		token := tokens[i]
		log.Printf(
			"[FCM][TOKEN ERROR] token=%s error=%v",
			token,
			resp.Error,
		)

		if messaging.IsUnregistered(resp.Error) {
			log.Printf("[FCM] Removing dead token for user %s", uid)
			if err := st.ArrayRemove(ctx, store.UsersCollection, uid, "fcmTokens", token); err != nil {
				log.Printf("[FCM][ERROR] Failed to remove token for %s: %v", uid, err)
			}
		}
	}

	return response.SuccessCount, response.FailureCount, nil
}
