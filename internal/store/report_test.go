package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/store"
)

var _ = Describe("ReportStore", func() {
	var (
		ctx     context.Context
		f       fixture
		reports store.ReportStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		db := newTestDB()
		f = fixture{db: db}
		reports = store.NewStores(db).Reports()

		f.category(3, "Public Lighting")
		f.category(5, "Waste")
		f.user(1)
	})

	Describe("Create", func() {
		It("forces pending_approval and keeps photo order", func() {
			report := &models.Report{
				UserID:      1,
				CategoryID:  3,
				Title:       "Broken lamp",
				Description: "Lamp is off",
				Status:      models.ReportStatusResolved,
				AssignedTo:  ptr(int64(9)),
				Photos:      []string{"a.jpg", "b.jpg", "c.jpg"},
			}
			Expect(reports.Create(ctx, report)).To(Succeed())
			Expect(report.ID).NotTo(BeZero())

			stored, err := reports.GetByID(ctx, report.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(models.ReportStatusPendingApproval))
			Expect(stored.AssignedTo).To(BeNil())
			Expect([]string(stored.Photos)).To(Equal([]string{"a.jpg", "b.jpg", "c.jpg"}))
		})
	})

	Describe("GetByID", func() {
		It("returns ErrNotFound for unknown ids", func() {
			_, err := reports.GetByID(ctx, 404)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			f.report(10, 1, 3, models.ReportStatusPendingApproval, nil)
			f.report(11, 1, 3, models.ReportStatusAssigned, ptr(int64(20)))
			f.report(12, 1, 5, models.ReportStatusAssigned, ptr(int64(21)))
		})

		It("filters by status", func() {
			status := models.ReportStatusAssigned
			list, err := reports.List(ctx, store.ReportFilter{Status: &status})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
		})

		It("filters by officer", func() {
			list, err := reports.List(ctx, store.ReportFilter{OfficerID: ptr(int64(21))})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(int64(12)))
		})

		It("returns an empty, non-nil slice when nothing matches", func() {
			status := models.ReportStatusResolved
			list, err := reports.List(ctx, store.ReportFilter{Status: &status})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).NotTo(BeNil())
			Expect(list).To(BeEmpty())
		})
	})

	Describe("UpdateStatusAndAssign", func() {
		BeforeEach(func() {
			f.report(7, 1, 3, models.ReportStatusPendingApproval, nil)
		})

		It("applies set fields and leaves unset ones untouched", func() {
			changed, err := reports.UpdateStatusAndAssign(ctx, 7, models.ReportStatusPendingApproval, models.ReportPatch{
				Status:     models.Set(models.ReportStatusAssigned),
				ReviewedBy: models.Set(int64(2)),
				AssignedTo: models.Set(int64(11)),
				Note:       models.Clear[string](),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())

			stored, err := reports.GetByID(ctx, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(models.ReportStatusAssigned))
			Expect(*stored.AssignedTo).To(Equal(int64(11)))
			Expect(*stored.ReviewedBy).To(Equal(int64(2)))
			Expect(stored.CategoryID).To(Equal(int64(3)))
			Expect(stored.Note).To(BeNil())
		})

		It("stores the rejection note", func() {
			changed, err := reports.UpdateStatusAndAssign(ctx, 7, models.ReportStatusPendingApproval, models.ReportPatch{
				Status: models.Set(models.ReportStatusRejected),
				Note:   models.Set("duplicate of #3"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())

			stored, _ := reports.GetByID(ctx, 7)
			Expect(stored.Note).NotTo(BeNil())
			Expect(*stored.Note).To(Equal("duplicate of #3"))
		})

		It("does not touch a row whose status moved on", func() {
			first, err := reports.UpdateStatusAndAssign(ctx, 7, models.ReportStatusPendingApproval, models.ReportPatch{
				Status:     models.Set(models.ReportStatusAssigned),
				AssignedTo: models.Set(int64(11)),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(BeTrue())

			second, err := reports.UpdateStatusAndAssign(ctx, 7, models.ReportStatusPendingApproval, models.ReportPatch{
				Status:     models.Set(models.ReportStatusAssigned),
				AssignedTo: models.Set(int64(12)),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(BeFalse())

			stored, _ := reports.GetByID(ctx, 7)
			Expect(*stored.AssignedTo).To(Equal(int64(11)))
		})

		It("reports no change for unknown ids", func() {
			changed, err := reports.UpdateStatusAndAssign(ctx, 999, models.ReportStatusPendingApproval, models.ReportPatch{
				Status: models.Set(models.ReportStatusRejected),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeFalse())
		})

		It("rejects an empty patch", func() {
			_, err := reports.UpdateStatusAndAssign(ctx, 7, models.ReportStatusPendingApproval, models.ReportPatch{})
			Expect(err).To(HaveOccurred())
		})
	})
})
