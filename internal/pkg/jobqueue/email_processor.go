package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/app/repository"
	"github.com/thejzagency/swfldines/internal/pkg/database"
	"github.com/thejzagency/swfldines/internal/pkg/mail"
)

// UpsellStepInterval is the delay between upsell emails in a sequence.
const UpsellStepInterval = 7 * 24 * time.Hour

// upsellEmailContent returns the subject and body for a given sequence step.
// Step 0 pitches the featured tier, step 1 the premium tier.
func upsellEmailContent(step int, restaurantName string) (subject, body string, ok bool) {
	switch step {
	case 0:
		subject = fmt.Sprintf("Get %s in front of more diners", restaurantName)
		body = fmt.Sprintf(
			"<p>Hi,</p>"+
				"<p>Thanks for claiming <strong>%s</strong> on SW Florida Dines!</p>"+
				"<p>Free listings show the basics, but a <strong>Featured listing ($29/month)</strong> adds "+
				"your description, website link, menu link and up to 5 photos — and ranks above every free "+
				"listing in search results.</p>"+
				"<p>Upgrade any time from your owner dashboard.</p>"+
				"<p>— The SW Florida Dines Team</p>",
			restaurantName)
		return subject, body, true
	case 1:
		subject = fmt.Sprintf("Put %s at the top of the page", restaurantName)
		body = fmt.Sprintf(
			"<p>Hi,</p>"+
				"<p>Diners are looking at <strong>%s</strong> — make sure they see your best side.</p>"+
				"<p>A <strong>Premium listing ($59/month)</strong> unlocks 15 photos, social media links, "+
				"feature tags and a 30-day analytics dashboard, and ranks above both free and featured "+
				"listings.</p>"+
				"<p>Upgrade any time from your owner dashboard.</p>"+
				"<p>— The SW Florida Dines Team</p>",
			restaurantName)
		return subject, body, true
	default:
		return "", "", false
	}
}

// advanceSequence moves a sequence forward after a successful send. The
// final step completes the sequence, earlier steps schedule the next email.
func advanceSequence(sequence *models.EmailSequence, now time.Time) {
	sequence.LastEmailSentAt = &now
	sequence.CurrentStep++
	if sequence.CurrentStep >= sequence.TotalSteps {
		sequence.Status = models.SequenceStatusCompleted
		sequence.NextEmailScheduledAt = nil
		return
	}
	next := now.Add(UpsellStepInterval)
	sequence.NextEmailScheduledAt = &next
}

// processUpsellEmailJob sends the next email of an upsell sequence
func (q *Queue) processUpsellEmailJob(ctx context.Context, job *Job) error {
	_ = ctx
	payload, err := UpsellEmailJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid upsell email payload: %w", err)
	}

	db := database.GetDB()
	sequences := repository.NewEmailSequenceRepository(db)
	restaurants := repository.NewRestaurantRepository(db)
	users := repository.NewUserRepository(db)

	sequence, err := sequences.GetByID(payload.SequenceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[JobQueue] Upsell sequence %d no longer exists, skipping", payload.SequenceID)
			return nil
		}
		return err
	}
	if sequence.Status != models.SequenceStatusActive {
		log.Debugf("[JobQueue] Upsell sequence %d is %s, skipping", sequence.ID, sequence.Status)
		return nil
	}

	restaurant, err := restaurants.GetByID(sequence.RestaurantID)
	if err != nil {
		return err
	}

	// Owners who already upgraded stop receiving upsell mail.
	if restaurant.ListingType != models.ListingTypeFree {
		sequence.Status = models.SequenceStatusCancelled
		sequence.NextEmailScheduledAt = nil
		return sequences.Update(sequence)
	}
	if restaurant.OwnerID == nil {
		sequence.Status = models.SequenceStatusCancelled
		sequence.NextEmailScheduledAt = nil
		return sequences.Update(sequence)
	}

	owner, err := users.GetByID(*restaurant.OwnerID)
	if err != nil {
		return err
	}

	subject, body, ok := upsellEmailContent(sequence.CurrentStep, restaurant.Name)
	if !ok {
		// Step ran past the templates; close the sequence instead of retrying forever.
		sequence.Status = models.SequenceStatusCompleted
		sequence.NextEmailScheduledAt = nil
		return sequences.Update(sequence)
	}

	if err := mail.SendMail(owner.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send upsell email for sequence %d: %w", sequence.ID, err)
	}

	advanceSequence(sequence, time.Now())
	return sequences.Update(sequence)
}

// processClaimNoticeJob sends a confirmation email after a listing claim
func (q *Queue) processClaimNoticeJob(ctx context.Context, job *Job) error {
	_ = ctx
	payload, err := ClaimNoticeJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid claim notice payload: %w", err)
	}

	db := database.GetDB()
	restaurant, err := repository.NewRestaurantRepository(db).GetByID(payload.RestaurantID)
	if err != nil {
		return err
	}
	owner, err := repository.NewUserRepository(db).GetByID(payload.OwnerID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("You now manage %s on SW Florida Dines", restaurant.Name)
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your claim for <strong>%s</strong> is confirmed. You can update your listing details "+
			"from the owner dashboard.</p>"+
			"<p>— The SW Florida Dines Team</p>",
		owner.FirstName, restaurant.Name)
	return mail.SendMail(owner.Email, subject, body)
}

// processStatusNoticeJob notifies an owner about a moderation decision
func (q *Queue) processStatusNoticeJob(ctx context.Context, job *Job) error {
	_ = ctx
	payload, err := StatusNoticeJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid status notice payload: %w", err)
	}

	db := database.GetDB()
	restaurant, err := repository.NewRestaurantRepository(db).GetByID(payload.RestaurantID)
	if err != nil {
		return err
	}
	if restaurant.OwnerID == nil {
		// Nothing to notify for unclaimed listings.
		return nil
	}
	owner, err := repository.NewUserRepository(db).GetByID(*restaurant.OwnerID)
	if err != nil {
		return err
	}

	var subject, body string
	switch payload.NewStatus {
	case models.RestaurantStatusActive:
		subject = fmt.Sprintf("%s is now live on SW Florida Dines", restaurant.Name)
		body = fmt.Sprintf(
			"<p>Hi %s,</p><p><strong>%s</strong> has been approved and is now visible in the directory.</p>"+
				"<p>— The SW Florida Dines Team</p>",
			owner.FirstName, restaurant.Name)
	case models.RestaurantStatusInactive:
		subject = fmt.Sprintf("%s has been taken offline", restaurant.Name)
		body = fmt.Sprintf(
			"<p>Hi %s,</p><p><strong>%s</strong> is no longer visible in the directory. "+
				"Reply to this email if you think this is a mistake.</p>"+
				"<p>— The SW Florida Dines Team</p>",
			owner.FirstName, restaurant.Name)
	default:
		return nil
	}
	return mail.SendMail(owner.Email, subject, body)
}
