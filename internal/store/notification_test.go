package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/store"
)

var _ = Describe("NotificationStore", func() {
	var (
		ctx           context.Context
		f             fixture
		notifications store.NotificationStore
		comments      store.CommentStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		db := newTestDB()
		f = fixture{db: db}
		stores := store.NewStores(db)
		notifications = stores.Notifications()
		comments = stores.Comments()

		f.category(3, "Public Lighting")
		f.user(1)
		f.user(2)
		f.report(7, 1, 3, models.ReportStatusAssigned, ptr(int64(2)))
	})

	It("lists a user's notifications with report and comment details", func() {
		comment := &models.Comment{ReportID: 7, UserID: 2, Content: "on my way"}
		Expect(comments.Create(ctx, comment)).To(Succeed())

		Expect(notifications.Create(ctx, &models.Notification{
			UserID: 1, Type: models.NotificationStatusUpdate, ReportID: 7, Title: "Report assigned",
		})).To(Succeed())
		Expect(notifications.Create(ctx, &models.Notification{
			UserID: 1, Type: models.NotificationExternalComment, ReportID: 7, CommentID: &comment.ID, Title: "New message",
		})).To(Succeed())
		Expect(notifications.Create(ctx, &models.Notification{
			UserID: 2, Type: models.NotificationAssignment, ReportID: 7, Title: "New assignment",
		})).To(Succeed())

		views, err := notifications.ListByUser(ctx, 1, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(views).To(HaveLen(2))
		for _, v := range views {
			Expect(v.UserID).To(Equal(int64(1)))
			Expect(v.ReportTitle).To(Equal("report 7"))
			if v.CommentID != nil {
				Expect(*v.CommentContent).To(Equal("on my way"))
			}
		}
	})

	It("only lets the owner mark a notification as read", func() {
		n := &models.Notification{UserID: 1, Type: models.NotificationStatusUpdate, ReportID: 7, Title: "Report assigned"}
		Expect(notifications.Create(ctx, n)).To(Succeed())

		changed, err := notifications.MarkRead(ctx, 2, n.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeFalse())

		unread, err := notifications.ListByUser(ctx, 1, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(unread).To(HaveLen(1))

		changed, err = notifications.MarkRead(ctx, 1, n.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())

		unread, err = notifications.ListByUser(ctx, 1, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(unread).To(BeEmpty())
	})
})
