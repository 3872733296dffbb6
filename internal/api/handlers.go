package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"

	"github.com/Mahesh00234h/installment/internal/chain"
	"github.com/Mahesh00234h/installment/internal/escrow"
	"github.com/Mahesh00234h/installment/internal/keys"
)

// payerAccount loads the payer signing identity from configuration. The key
// is resolved per request so that a missing credential fails the first
// transaction-submitting call, not process startup.
func (s *Server) payerAccount() (*aptos.Account, error) {
	if s.cfg.PayerPrivateKeyHex == "" && s.cfg.PayerMnemonic != "" {
		return keys.FromMnemonic(s.cfg.PayerMnemonic)
	}

	acct, err := keys.Load(s.cfg.PayerPrivateKeyHex)
	if errors.Is(err, keys.ErrNoCredential) {
		return nil, errors.New("PAYER_PRIVATE_KEY_HEX not configured")
	}
	return acct, err
}

// moduleAddress resolves the configured contract module address.
func (s *Server) moduleAddress() (aptos.AccountAddress, error) {
	var addr aptos.AccountAddress
	if s.cfg.ModuleAddress == "" {
		return addr, errors.New("MODULE_ADDRESS not configured")
	}
	if err := addr.ParseStringRelaxed(s.cfg.ModuleAddress); err != nil {
		return addr, fmt.Errorf("invalid MODULE_ADDRESS: %w", err)
	}
	return addr, nil
}

// readStore fetches and decodes the module's Store resource.
func (s *Server) readStore(module aptos.AccountAddress) (*escrow.Store, error) {
	record, err := s.gateway.ReadResource(module, escrow.StoreTag(module))
	if err != nil {
		if errors.Is(err, chain.ErrResourceNotFound) {
			return nil, escrow.ErrStoreNotFound
		}
		return nil, err
	}
	return escrow.DecodeStore(record)
}

// inferCreatedID reads the Store counter right after a create and reports
// next_id - 1 as the id of the agreement just created. The read can fail or
// race with concurrent creators; on any problem the id is simply unknown.
func (s *Server) inferCreatedID(module aptos.AccountAddress) *uint64 {
	store, err := s.readStore(module)
	if err != nil || store.NextID == 0 {
		s.logger.Debug().Err(err).Msg("created id inference failed")
		return nil
	}
	id := store.NextID - 1
	return &id
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	page, err := os.ReadFile(filepath.Join(s.cfg.FrontendDir, "index.html"))
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprint(w, "<h1>Frontend file not found</h1><p>Make sure index.html exists in the frontend folder.</p>")
			return
		}
		fmt.Fprintf(w, "<h1>Error loading frontend</h1><p>%s</p>", err)
		return
	}
	w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "Tuition Escrow API is running",
	})
}

func (s *Server) handleCreateAgreement(w http.ResponseWriter, r *http.Request) {
	var req CreateAgreementRequest
	body := io.LimitReader(r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	payer, err := s.payerAccount()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to create agreement: "+err.Error())
		return
	}
	module, err := s.moduleAddress()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to create agreement: "+err.Error())
		return
	}

	entry, err := escrow.CreateAgreement(module, escrow.AgreementParams{
		InstallmentAmount: req.InstallmentAmount,
		NumInstallments:   req.NumInstallments,
		StartTimeSecs:     uint64(time.Now().Unix()),
		IntervalSecs:      req.IntervalDays * escrow.SecondsPerDay,
		PenaltyBps:        req.PenaltyRate,
		GracePeriodSecs:   req.GracePeriodDays * escrow.SecondsPerDay,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to create agreement: "+err.Error())
		return
	}

	hash, err := s.gateway.SubmitEntryFunction(payer, entry)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to create agreement: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, CreateAgreementResponse{
		Success:         true,
		TransactionHash: hash,
		Message:         "Tuition agreement created successfully",
		AgreementID:     s.inferCreatedID(module),
	})
}

func (s *Server) handlePayInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid agreement id: "+r.PathValue("id"))
		return
	}

	payer, err := s.payerAccount()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to pay installment: "+err.Error())
		return
	}
	module, err := s.moduleAddress()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to pay installment: "+err.Error())
		return
	}

	entry, err := escrow.PayNextInstallment(module, id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to pay installment: "+err.Error())
		return
	}

	hash, err := s.gateway.SubmitEntryFunction(payer, entry)
	if err != nil {
		// The chain's rejection reason passes through verbatim.
		s.writeError(w, http.StatusInternalServerError, "Failed to pay installment: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, PayResponse{
		Success:         true,
		TransactionHash: hash,
		Message:         fmt.Sprintf("Installment %d paid successfully", id),
	})
}

func (s *Server) handleGetAgreement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid agreement id: "+r.PathValue("id"))
		return
	}

	module, err := s.moduleAddress()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to get agreement: "+err.Error())
		return
	}

	// Confirm the module's storage exists before answering.
	if _, err := s.readStore(module); err != nil {
		if errors.Is(err, escrow.ErrStoreNotFound) {
			s.writeError(w, http.StatusNotFound, "Store resource not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Failed to get agreement: "+err.Error())
		return
	}

	// Per-agreement field extraction is not implemented yet; everything but
	// the id is a placeholder.
	s.writeJSON(w, http.StatusOK, AgreementSummary{
		ID:    id,
		Payer: "0x...",
	})
}

func (s *Server) handleNextID(w http.ResponseWriter, r *http.Request) {
	module, err := s.moduleAddress()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to get next_id: "+err.Error())
		return
	}

	store, err := s.readStore(module)
	if err != nil {
		switch {
		case errors.Is(err, escrow.ErrStoreNotFound):
			s.writeError(w, http.StatusNotFound, "Store resource not found")
		case errors.Is(err, escrow.ErrMalformedStore):
			s.writeError(w, http.StatusInternalServerError, "Malformed Store resource")
		default:
			s.writeError(w, http.StatusInternalServerError, "Failed to get next_id: "+err.Error())
		}
		return
	}

	s.writeJSON(w, http.StatusOK, NextIDResponse{NextID: store.NextID})
}

// handleListAgreements returns an empty list; enumerating agreements would
// require parsing the Store resource's table of agreements.
func (s *Server) handleListAgreements(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, []AgreementSummary{})
}
