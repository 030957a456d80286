package services_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/realtime"
	"github.com/civicpulse/backend/internal/services"
	"github.com/civicpulse/backend/internal/store"
)

var _ = Describe("NotificationService", func() {
	var (
		ctx           context.Context
		notifications *mockNotificationStore
		users         *mockUserStore
		channel       *recordingChannel
		svc           *services.NotificationService
		input         services.NotificationInput
	)

	BeforeEach(func() {
		ctx = context.Background()
		notifications = &mockNotificationStore{}
		users = &mockUserStore{
			externalIDOfFn: func(_ context.Context, id int64) (string, error) {
				if id == 40 {
					return "7f0c1a9e-citizen", nil
				}
				return "", store.ErrNotFound
			},
		}
		channel = &recordingChannel{}
		svc = services.NewNotificationService(notifications, users, channel)
		input = services.NotificationInput{
			UserID:   40,
			Type:     models.NotificationStatusUpdate,
			ReportID: 7,
			Title:    "Your report has been approved",
			Metadata: map[string]any{"status": models.ReportStatusAssigned},
		}
	})

	Describe("CreateAndDispatch", func() {
		It("persists the notification and pushes it to the recipient channel", func() {
			n, err := svc.CreateAndDispatch(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(n.UserID).To(Equal(int64(40)))
			Expect(notifications.created).To(HaveLen(1))

			Expect(channel.sent).To(HaveLen(1))
			Expect(channel.sent[0].Key).To(Equal("7f0c1a9e-citizen"))

			push, ok := channel.sent[0].Payload.(services.Push)
			Expect(ok).To(BeTrue())
			Expect(push.ID).NotTo(BeEmpty())
			Expect(push.CreatedAt.IsZero()).To(BeFalse())
			Expect(push.Type).To(Equal(models.NotificationStatusUpdate))
			Expect(push.Metadata).To(HaveKeyWithValue("status", models.ReportStatusAssigned))
			Expect(push.Notification).To(Equal(n))
		})

		It("returns while the recipient's socket is not reading", func() {
			stalled := &stalledConn{unblock: make(chan struct{})}
			DeferCleanup(func() { close(stalled.unblock) })
			hub := realtime.NewHub()
			hub.Track("7f0c1a9e-citizen", realtime.NewClient(stalled))
			svc = services.NewNotificationService(notifications, users, hub)

			done := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(done)
				for i := 0; i < 40; i++ {
					_, err := svc.CreateAndDispatch(ctx, input)
					Expect(err).NotTo(HaveOccurred())
				}
			}()

			Eventually(done, "2s").Should(BeClosed())
			Expect(notifications.created).To(HaveLen(40))
		})

		It("generates a fresh correlation id per push", func() {
			_, err := svc.CreateAndDispatch(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.CreateAndDispatch(ctx, input)
			Expect(err).NotTo(HaveOccurred())

			first := channel.sent[0].Payload.(services.Push)
			second := channel.sent[1].Payload.(services.Push)
			Expect(first.ID).NotTo(Equal(second.ID))
		})

		It("fails when the notification cannot be persisted", func() {
			notifications.createErr = errors.New("disk full")

			n, err := svc.CreateAndDispatch(ctx, input)
			Expect(err).To(MatchError(ContainSubstring("disk full")))
			Expect(n).To(BeNil())
			Expect(channel.sent).To(BeEmpty())
		})

		Context("when the push cannot be delivered", func() {
			It("keeps exactly one row when the recipient cannot be resolved", func() {
				input.UserID = 41

				_, err := svc.CreateAndDispatch(ctx, input)
				Expect(err).NotTo(HaveOccurred())
				Expect(notifications.created).To(HaveLen(1))
				Expect(channel.sent).To(BeEmpty())
			})

			It("keeps exactly one row when the channel panics", func() {
				channel.panic = true

				_, err := svc.CreateAndDispatch(ctx, input)
				Expect(err).NotTo(HaveOccurred())
				Expect(notifications.created).To(HaveLen(1))
			})

			It("keeps exactly one row when no channel is configured", func() {
				svc = services.NewNotificationService(notifications, users, nil)

				_, err := svc.CreateAndDispatch(ctx, input)
				Expect(err).NotTo(HaveOccurred())
				Expect(notifications.created).To(HaveLen(1))
			})
		})
	})

	Describe("PushToUser", func() {
		It("keeps a caller supplied id", func() {
			svc.PushToUser(ctx, 40, services.Push{ID: "fixed", Type: models.NotificationAssignment})

			Expect(channel.sent).To(HaveLen(1))
			Expect(channel.sent[0].Payload.(services.Push).ID).To(Equal("fixed"))
			Expect(notifications.created).To(BeEmpty())
		})
	})

	Describe("MarkRead", func() {
		It("marks the owner's notification", func() {
			notifications.markReadFn = func(_ context.Context, userID, id int64) (bool, error) {
				return userID == 40 && id == 5, nil
			}
			Expect(svc.MarkRead(ctx, 40, 5)).To(Succeed())
		})

		It("reports other users' notifications as not found", func() {
			notifications.markReadFn = func(_ context.Context, userID, id int64) (bool, error) {
				return userID == 40 && id == 5, nil
			}
			Expect(svc.MarkRead(ctx, 41, 5)).To(MatchError(services.ErrNotificationNotFound))
		})
	})

	Describe("ListForUser", func() {
		It("passes the unread filter through", func() {
			var unread bool
			notifications.listByUserFn = func(_ context.Context, userID int64, unreadOnly bool) ([]store.NotificationView, error) {
				unread = unreadOnly
				return []store.NotificationView{{ReportTitle: "Broken street light"}}, nil
			}

			views, err := svc.ListForUser(ctx, 40, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(unread).To(BeTrue())
			Expect(views).To(HaveLen(1))
		})
	})
})
