package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/services"
)

var _ = Describe("CommentService", func() {
	var (
		ctx      context.Context
		comments *mockCommentStore
		notifier *recordingNotifier
		svc      *services.CommentService

		citizen    = services.Actor{UserID: 40, RoleTypes: []models.RoleType{models.RoleTypeCitizen}}
		officer    = services.Actor{UserID: 11, RoleTypes: []models.RoleType{models.RoleTypeTechOfficer}}
		maintainer = services.Actor{UserID: 80, RoleTypes: []models.RoleType{models.RoleTypeExternalMaintainer}}
		stranger   = services.Actor{UserID: 41, RoleTypes: []models.RoleType{models.RoleTypeCitizen}}
		pr         = services.Actor{UserID: 2, RoleTypes: []models.RoleType{models.RoleTypePubRelations}}
	)

	BeforeEach(func() {
		ctx = context.Background()
		comments = &mockCommentStore{}
		notifier = &recordingNotifier{}
		reports := newMemReportStore(models.Report{
			ID:                   7,
			UserID:               40,
			CategoryID:           3,
			Title:                "Broken street light",
			Status:               models.ReportStatusInProgress,
			AssignedTo:           ptrTo(int64(11)),
			ExternalMaintainerID: ptrTo(int64(80)),
		})
		svc = services.NewCommentService(comments, reports, services.NewContentFilter(), notifier)
	})

	recipients := func() []int64 {
		ids := make([]int64, 0, len(notifier.inputs))
		for _, in := range notifier.inputs {
			ids = append(ids, in.UserID)
		}
		return ids
	}

	Describe("external thread", func() {
		It("lets the citizen write and notifies the assignee", func() {
			c, err := svc.Create(ctx, citizen, 7, "  Still dark tonight  ", false)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Content).To(Equal("Still dark tonight"))
			Expect(c.IsInternal).To(BeFalse())

			Expect(recipients()).To(ConsistOf(int64(11)))
			Expect(notifier.inputs[0].Type).To(Equal(models.NotificationExternalComment))
			Expect(*notifier.inputs[0].CommentID).To(Equal(c.ID))
		})

		It("lets the assignee answer and notifies the citizen", func() {
			_, err := svc.Create(ctx, officer, 7, "Crew scheduled for Monday", false)
			Expect(err).NotTo(HaveOccurred())
			Expect(recipients()).To(ConsistOf(int64(40)))
		})

		It("refuses other citizens", func() {
			_, err := svc.Create(ctx, stranger, 7, "me too", false)
			Expect(err).To(MatchError(services.ErrCommentForbidden))
			Expect(comments.created).To(BeEmpty())
		})
	})

	Describe("internal thread", func() {
		It("is shared between the assignee and the external maintainer", func() {
			_, err := svc.Create(ctx, maintainer, 7, "Need a lift truck", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(recipients()).To(ConsistOf(int64(11)))
			Expect(notifier.inputs[0].Type).To(Equal(models.NotificationInternalComment))
		})

		It("is closed to the citizen", func() {
			_, err := svc.Create(ctx, citizen, 7, "hello", true)
			Expect(err).To(MatchError(services.ErrCommentForbidden))

			_, err = svc.List(ctx, citizen, 7, true)
			Expect(err).To(MatchError(services.ErrCommentForbidden))
		})

		It("is readable by public relations", func() {
			_, err := svc.List(ctx, pr, 7, true)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	DescribeTable("rejects unusable content",
		func(content string, expected error) {
			_, err := svc.Create(ctx, citizen, 7, content, false)
			Expect(err).To(MatchError(expected))
			Expect(comments.created).To(BeEmpty())
		},
		Entry("empty", "", services.ErrEmptyComment),
		Entry("blank", "   ", services.ErrEmptyComment),
		Entry("profanity", "this is bullshit", services.ErrContentRejected),
	)

	It("fails with ReportNotFound for unknown reports", func() {
		_, err := svc.Create(ctx, citizen, 8, "hello", false)
		Expect(err).To(MatchError(services.ErrReportNotFound))
	})
})
