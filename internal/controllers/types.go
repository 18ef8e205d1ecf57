package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/ledger"
	"github.com/twobolsos/backend/internal/models"
	"github.com/twobolsos/backend/internal/types"
)

// ownerSelf is shown as owner name when the caller owns the wallet.
const ownerSelf = "Você"

// unknownCreator is shown for statement entries whose creator is unknown.
const unknownCreator = "N/A"

// defaultWindowDays is used when the dias query parameter is not set.
const defaultWindowDays = 30

type WalletEditable struct {
	Name     string `json:"nome" example:"Casa"`
	Category string `json:"categoria" example:"STANDARD"`
	Color    string `json:"cor" example:"#0d6efd"`
}

type Wallet struct {
	ID        uuid.UUID             `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Name      string                `json:"nome"`
	Category  models.WalletCategory `json:"categoria"`
	Color     string                `json:"cor"`
	Balance   decimal.Decimal       `json:"saldo"`
	Role      models.Role           `json:"role"`
	OwnerID   uuid.UUID             `json:"owner_id"`
	OwnerName string                `json:"owner_name"`
}

func newWallet(user uuid.UUID, w models.Wallet, role models.Role, balance decimal.Decimal, ownerName string) Wallet {
	if w.OwnerID == user {
		ownerName = ownerSelf
	}

	return Wallet{
		ID:        w.ID,
		CreatedAt: w.CreatedAt,
		Name:      w.Name,
		Category:  w.Category,
		Color:     w.Color,
		Balance:   balance,
		Role:      role,
		OwnerID:   w.OwnerID,
		OwnerName: ownerName,
	}
}

type KPIs struct {
	Income      decimal.Decimal  `json:"receita"`
	Expense     decimal.Decimal  `json:"despesa"`
	Balance     decimal.Decimal  `json:"saldo"`
	TotalKm     *decimal.Decimal `json:"total_km,omitempty"`
	TotalLiters *decimal.Decimal `json:"total_litros,omitempty"`
	Autonomy    *decimal.Decimal `json:"autonomia,omitempty"`
	Yield       *decimal.Decimal `json:"rendimento,omitempty"`
}

type StatementEntry struct {
	models.Transaction
	CreatedByName string `json:"created_by_name"`
}

type Chart struct {
	Labels  []types.Date      `json:"labels"`
	Income  []decimal.Decimal `json:"receitas"`
	Expense []decimal.Decimal `json:"despesas"`
}

type Dashboard struct {
	Wallet    Wallet           `json:"negocio"`
	Role      models.Role      `json:"role"`
	KPIs      KPIs             `json:"kpis"`
	Statement []StatementEntry `json:"extrato"`
	Chart     Chart            `json:"grafico"`
	Pie       ledger.Breakdown `json:"pizza"`
}

func newDashboard(user uuid.UUID, d ledger.Dashboard, ownerName string) Dashboard {
	kpis := KPIs{
		Income:  d.KPIs.Income,
		Expense: d.KPIs.Expense,
		Balance: d.KPIs.Balance,
	}

	if d.KPIs.Driver != nil {
		kpis.TotalKm = &d.KPIs.Driver.TotalKm
		kpis.TotalLiters = &d.KPIs.Driver.TotalLiters
		kpis.Autonomy = &d.KPIs.Driver.Autonomy
		kpis.Yield = &d.KPIs.Driver.Yield
	}

	statement := make([]StatementEntry, 0, len(d.Statement))
	for _, t := range d.Statement {
		name := t.CreatedBy.Username
		if name == "" {
			name = unknownCreator
		}
		statement = append(statement, StatementEntry{Transaction: t, CreatedByName: name})
	}

	return Dashboard{
		Wallet:    newWallet(user, d.Wallet, d.Role, d.KPIs.Balance, ownerName),
		Role:      d.Role,
		KPIs:      kpis,
		Statement: statement,
		Chart: Chart{
			Labels:  d.Series.Labels,
			Income:  d.Series.Income,
			Expense: d.Series.Expense,
		},
		Pie: d.Breakdown,
	}
}

type TransactionEditable struct {
	WalletID      uuid.UUID           `json:"negocio_id"`
	Type          string              `json:"tipo" example:"expense"`
	Description   string              `json:"descricao" example:"Aluguel"`
	Amount        decimal.Decimal     `json:"valor" example:"300.00"`
	Date          types.Date          `json:"data" example:"2024-05-15"`
	Tag           string              `json:"tag" example:"Casa"`
	Km            decimal.NullDecimal `json:"km"`
	Liters        decimal.NullDecimal `json:"litros"`
	PaymentMethod string              `json:"forma_pagamento" example:"pix"`
}

type FixedExpenseEditable struct {
	WalletID       uuid.UUID       `json:"negocio_id"`
	Name           string          `json:"nome" example:"Internet"`
	Amount         decimal.Decimal `json:"valor" example:"99.90"`
	Tag            string          `json:"tag" example:"Casa"`
	DueDay         int             `json:"dia_vencimento" example:"10"`
	DurationMonths *int            `json:"duracao_meses" example:"12"`
}

func (e FixedExpenseEditable) input() ledger.FixedExpenseInput {
	return ledger.FixedExpenseInput{
		WalletID:       e.WalletID,
		Name:           e.Name,
		Amount:         e.Amount,
		Tag:            e.Tag,
		DueDay:         e.DueDay,
		DurationMonths: e.DurationMonths,
	}
}

type FixedExpense struct {
	models.FixedExpense
	Month types.Month `json:"mes"`
	Paid  bool        `json:"pago_neste_mes"`
}

type Invite struct {
	Code      string    `json:"code" example:"K7Q2ZD"`
	ExpiresAt time.Time `json:"expires"`
}

type JoinResponse struct {
	Message string    `json:"msg"`
	Wallet  string    `json:"negocio"`
	ID      uuid.UUID `json:"negocio_id"`
}

type MemberEditable struct {
	Role string `json:"role" example:"viewer"`
}

type QueryWindow struct {
	Days *int `form:"dias"`
}

type QueryMonth struct {
	Month string `form:"mes" example:"2024-05"`
}

type QueryCode struct {
	Code string `form:"code" example:"K7Q2ZD"`
}
