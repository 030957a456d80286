package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/services"
	"github.com/civicpulse/backend/internal/store"
)

var _ = Describe("ReportService", func() {
	var (
		ctx        context.Context
		reports    *memReportStore
		categories *mockCategoryStore
		svc        *services.ReportService
		input      services.CreateReportInput
	)

	BeforeEach(func() {
		ctx = context.Background()
		reports = newMemReportStore()
		categories = &mockCategoryStore{
			existsFn: func(_ context.Context, id int64) (bool, error) { return id == 3, nil },
		}
		svc = services.NewReportService(reports, categories, services.NewContentFilter(), nil)
		input = services.CreateReportInput{
			CategoryID:  3,
			Title:       "Broken street light",
			Description: "The light on the corner has been out for a week.",
			PositionLat: 45.07,
			PositionLng: 7.68,
			Photos:      []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"},
		}
	})

	Describe("Create", func() {
		It("stores the submission for the citizen", func() {
			var stored *models.Report
			reports.createFn = func(_ context.Context, r *models.Report) error {
				r.ID = 7
				r.Status = models.ReportStatusPendingApproval
				stored = r
				return nil
			}

			report, err := svc.Create(ctx, 40, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(report).To(BeIdenticalTo(stored))
			Expect(report.UserID).To(Equal(int64(40)))
			Expect([]string(report.Photos)).To(Equal(input.Photos))
		})

		It("tells the public relations room about the new submission", func() {
			reports.createFn = func(_ context.Context, r *models.Report) error {
				r.ID = 7
				return nil
			}
			channel := &recordingChannel{}
			pusher := services.NewNotificationService(&mockNotificationStore{}, &mockUserStore{}, channel)
			svc = services.NewReportService(reports, categories, services.NewContentFilter(), pusher)

			_, err := svc.Create(ctx, 40, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(channel.sent).To(HaveLen(1))
			Expect(channel.sent[0].Key).To(Equal("role:pub_relations"))
			push := channel.sent[0].Payload.(services.Push)
			Expect(push.Type).To(Equal(models.NotificationReview))
			Expect(push.Metadata).To(HaveKeyWithValue("reportId", "7"))
			Expect(push.ID).NotTo(BeEmpty())
		})

		DescribeTable("validates the submission",
			func(mutate func(*services.CreateReportInput), expected error) {
				mutate(&input)
				_, err := svc.Create(ctx, 40, input)
				Expect(err).To(MatchError(expected))
			},
			Entry("missing title", func(in *services.CreateReportInput) { in.Title = " " }, services.ErrInvalidReport),
			Entry("missing description", func(in *services.CreateReportInput) { in.Description = "" }, services.ErrInvalidReport),
			Entry("no photos", func(in *services.CreateReportInput) { in.Photos = nil }, services.ErrInvalidReport),
			Entry("too many photos", func(in *services.CreateReportInput) {
				in.Photos = []string{"https://a/1", "https://a/2", "https://a/3", "https://a/4"}
			}, services.ErrInvalidReport),
			Entry("latitude out of range", func(in *services.CreateReportInput) { in.PositionLat = 91 }, services.ErrInvalidReport),
			Entry("unknown category", func(in *services.CreateReportInput) { in.CategoryID = 9 }, services.ErrCategoryNotFound),
			Entry("offensive title", func(in *services.CreateReportInput) { in.Title = "fucking lamp" }, services.ErrContentRejected),
		)
	})

	Describe("ListPublic", func() {
		It("lists approved statuses and hides anonymous reporters", func() {
			var got store.ReportFilter
			reports.listFn = func(_ context.Context, f store.ReportFilter) ([]models.Report, error) {
				got = f
				return []models.Report{
					{ID: 1, UserID: 40, Status: models.ReportStatusAssigned},
					{ID: 2, UserID: 41, Status: models.ReportStatusResolved, IsAnonymous: true},
				}, nil
			}

			list, err := svc.ListPublic(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Statuses).NotTo(ContainElement(models.ReportStatusPendingApproval))
			Expect(got.Statuses).NotTo(ContainElement(models.ReportStatusRejected))
			Expect(list[0].UserID).To(Equal(int64(40)))
			Expect(list[1].UserID).To(BeZero())
		})
	})

	Describe("ListByStatus", func() {
		It("defaults to the pending queue", func() {
			var got store.ReportFilter
			reports.listFn = func(_ context.Context, f store.ReportFilter) ([]models.Report, error) {
				got = f
				return []models.Report{}, nil
			}

			_, err := svc.ListByStatus(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(*got.Status).To(Equal(models.ReportStatusPendingApproval))
		})

		It("rejects unknown statuses", func() {
			status := models.ReportStatus("archived")
			_, err := svc.ListByStatus(ctx, &status)
			Expect(err).To(MatchError(services.ErrInvalidTargetStatus))
		})
	})

	Describe("Get", func() {
		BeforeEach(func() {
			reports = newMemReportStore(
				models.Report{ID: 1, UserID: 40, Status: models.ReportStatusPendingApproval},
				models.Report{ID: 2, UserID: 40, Status: models.ReportStatusInProgress, IsAnonymous: true},
			)
			svc = services.NewReportService(reports, categories, services.NewContentFilter(), nil)
		})

		It("shows pending reports to their owner and to staff only", func() {
			_, err := svc.Get(ctx, services.Actor{UserID: 40}, 1)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Get(ctx, services.Actor{UserID: 2, RoleTypes: []models.RoleType{models.RoleTypePubRelations}}, 1)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Get(ctx, services.Actor{UserID: 41}, 1)
			Expect(err).To(MatchError(services.ErrReportNotFound))
		})

		It("hides the reporter of anonymous public reports from other citizens", func() {
			report, err := svc.Get(ctx, services.Actor{UserID: 41}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.UserID).To(BeZero())
		})
	})
})
