package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/internal/db"
)

func setupGoldmineTest(t *testing.T) (GoldmineService, *gorm.DB, *model.GoldminePlan, *model.User) {
	testDB := db.SetupTestDB(t)
	t.Cleanup(func() {
		db.CleanupTestDB(t, testDB)
	})

	svc := NewGoldmineService(
		testDB,
		repository.NewGoldmineRepository(testDB),
		repository.NewNotificationRepository(testDB),
		nil,
	)

	plan := &model.GoldminePlan{
		Name:           "Goldmine 11+1",
		DurationMonths: 11,
		MonthlyAmount:  5000,
		BenefitPercent: 100,
		Active:         true,
	}
	require.NoError(t, testDB.Create(plan).Error)

	user := &model.User{
		Name: "Asha", Email: "asha@example.com", Phone: "9876543210",
		PasswordHash: "x", Role: model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	return svc, testDB, plan, user
}

func TestGoldmineService_Subscribe(t *testing.T) {
	svc, _, plan, user := setupGoldmineTest(t)

	sub, err := svc.Subscribe(user.ID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionActive, sub.Status)
	assert.Equal(t, plan.ID, sub.PlanID)
	assert.Equal(t, "Goldmine 11+1", sub.Plan.Name)
	assert.WithinDuration(t, time.Now(), sub.StartedAt, 5*time.Second)
}

func TestGoldmineService_Subscribe_InactivePlan(t *testing.T) {
	svc, testDB, _, user := setupGoldmineTest(t)

	retired := &model.GoldminePlan{
		Name: "Old Scheme", DurationMonths: 12, MonthlyAmount: 2000, Active: false,
	}
	require.NoError(t, testDB.Create(retired).Error)

	_, err := svc.Subscribe(user.ID, retired.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestGoldmineService_CancelSubscription(t *testing.T) {
	svc, testDB, plan, user := setupGoldmineTest(t)

	sub, err := svc.Subscribe(user.ID, plan.ID)
	require.NoError(t, err)

	t.Run("not the owner", func(t *testing.T) {
		stranger := &model.User{
			Name: "Ravi", Email: "ravi@example.com", Phone: "9000000000",
			PasswordHash: "x", Role: model.RoleUser,
		}
		require.NoError(t, testDB.Create(stranger).Error)

		_, err := svc.CancelSubscription(stranger.ID, sub.ID)
		assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	})

	t.Run("owner cancels", func(t *testing.T) {
		cancelled, err := svc.CancelSubscription(user.ID, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SubscriptionCancelled, cancelled.Status)
		require.NotNil(t, cancelled.CancelledAt)
	})

	t.Run("already cancelled", func(t *testing.T) {
		_, err := svc.CancelSubscription(user.ID, sub.ID)
		assert.ErrorIs(t, err, ErrSubscriptionNotActive)
	})
}

func TestGoldmineService_RecordInstallment(t *testing.T) {
	svc, _, plan, user := setupGoldmineTest(t)

	sub, err := svc.Subscribe(user.ID, plan.ID)
	require.NoError(t, err)

	paymentID := "pay_gm_1"
	inst, err := svc.RecordInstallment(sub.ID, 1, 0, &paymentID)
	require.NoError(t, err)
	assert.Equal(t, 1, inst.MonthNumber)
	// Zero amount falls back to the plan's monthly amount.
	assert.InDelta(t, 5000, inst.Amount, 0.001)

	t.Run("same month twice", func(t *testing.T) {
		paymentID2 := "pay_gm_retry"
		_, err := svc.RecordInstallment(sub.ID, 1, 5000, &paymentID2)
		assert.ErrorIs(t, err, ErrInstallmentAlreadyPaid)
	})

	t.Run("month outside plan term", func(t *testing.T) {
		_, err := svc.RecordInstallment(sub.ID, 12, 5000, nil)
		var errs ValidationErrors
		assert.ErrorAs(t, err, &errs)
	})

	t.Run("next month succeeds", func(t *testing.T) {
		inst, err := svc.RecordInstallment(sub.ID, 2, 5200, nil)
		require.NoError(t, err)
		assert.InDelta(t, 5200, inst.Amount, 0.001)
	})
}

func TestGoldmineService_MatureDueSubscriptions(t *testing.T) {
	svc, testDB, plan, user := setupGoldmineTest(t)

	due := &model.GoldmineSubscription{
		UserID: user.ID, PlanID: plan.ID,
		Status:    model.SubscriptionActive,
		StartedAt: time.Now().AddDate(-1, 0, 0),
	}
	require.NoError(t, testDB.Create(due).Error)

	fresh, err := svc.Subscribe(user.ID, plan.ID)
	require.NoError(t, err)

	matured, err := svc.MatureDueSubscriptions()
	require.NoError(t, err)
	assert.Equal(t, 1, matured)

	reloaded, err := svc.GetSubscription(due.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionMatured, reloaded.Status)
	require.NotNil(t, reloaded.MaturedAt)

	untouched, err := svc.GetSubscription(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionActive, untouched.Status)

	var notifications []model.Notification
	require.NoError(t, testDB.Where("type = ?", model.NotificationGoldmine).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.NotNil(t, notifications[0].UserID)
	assert.Equal(t, user.ID, *notifications[0].UserID)
}
