package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
)

// MockTxHash: sentinel tx id saat kontrak belum dikonfigurasi (mode mock).
const MockTxHash = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Gas limit tetap untuk issueCertificate
const anchorGasLimit = 200000

// Config dipass eksplisit ke NewClient — adapter tidak baca ENV sendiri.
type Config struct {
	RPCURL           string
	ContractAddress  string
	PrivateKey       string
	ChainID          int64
	UsePoA           bool
	CallTimeout      time.Duration
	ContractInfoPath string
}

// AnchorRecord: isi record sertifikat yang tersimpan di kontrak.
type AnchorRecord struct {
	CertificateID string
	StudentName   string
	CourseName    string
	IssueDate     string
	Timestamp     uint64
}

// ChainService adalah kontrak yang dikonsumsi lifecycle service.
// Anchor satu-satunya operasi mutasi dan TIDAK idempoten: dua kali Anchor
// untuk hash yang sama = dua transaksi on-chain.
type ChainService interface {
	Anchor(ctx context.Context, certificateID, certHash, studentName, courseName, issueDate string) (string, error)
	// Verify fail-closed: error apapun → onChain=false. checked=false artinya
	// pembacaan tidak terlaksana (unreachable / mode mock), bukan "tidak ada".
	Verify(ctx context.Context, certHash string) (onChain bool, checked bool)
	Lookup(ctx context.Context, certHash string) (*AnchorRecord, bool)
}

type Client struct {
	cfg          Config
	eth          *ethclient.Client
	contractABI  abi.ABI
	contractAddr common.Address
	privateKey   *ecdsa.PrivateKey
	account      common.Address
}

var _ ChainService = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	abiJSON, addrFromFile := loadContractInfo(cfg.ContractInfoPath)
	parsedABI, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parse contract ABI: %w", err)
	}

	address := cfg.ContractAddress
	if address == "" {
		address = addrFromFile
	}

	c := &Client{cfg: cfg, contractABI: parsedABI}

	if address == "" {
		// Mode mock: semua operasi jalan tanpa chain
		log.Println("⚠️ Contract address kosong → chain client mode mock.")
		return c, nil
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("contract address tidak valid: %s", address)
	}
	c.contractAddr = common.HexToAddress(address)

	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}
	c.eth = eth

	if pk := strings.TrimPrefix(cfg.PrivateKey, "0x"); pk != "" {
		key, err := crypto.HexToECDSA(pk)
		if err != nil {
			return nil, fmt.Errorf("parse PRIVATE_KEY: %w", err)
		}
		c.privateKey = key
		c.account = crypto.PubkeyToAddress(key.PublicKey)
	}

	log.Printf("⛓️ Chain client siap (contract=%s, signer=%s, poa=%v)", address, c.account.Hex(), cfg.UsePoA)
	return c, nil
}

func (c *Client) configured() bool {
	return c.eth != nil && c.contractAddr != (common.Address{})
}

// Anchor kirim issueCertificate dan tunggu 1 konfirmasi (blocking, dibatasi
// CallTimeout). Timeout dipetakan ke connection_refused.
func (c *Client) Anchor(ctx context.Context, certificateID, certHash, studentName, courseName, issueDate string) (string, error) {
	if !c.configured() {
		log.Println("⚠️ Mode mock: sertifikat tidak ditulis ke blockchain.")
		return MockTxHash, nil
	}
	if c.privateKey == nil {
		return "", &AnchorError{Reason: ReasonNotConfigured, Err: errors.New("PRIVATE_KEY belum diset untuk transaksi chain")}
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	nonce, err := c.eth.PendingNonceAt(ctx, c.account)
	if err != nil {
		return "", networkAnchorError(err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return "", networkAnchorError(err)
	}
	// dev chain PoA kadang kasih gas price 0
	if c.cfg.UsePoA && gasPrice.Sign() == 0 {
		gasPrice = big.NewInt(params.GWei)
	}

	input, err := c.contractABI.Pack("issueCertificate", certificateID, certHash, studentName, courseName, issueDate)
	if err != nil {
		return "", &AnchorError{Reason: ReasonNotConfigured, Err: fmt.Errorf("ABI pack: %w", err)}
	}

	tx := types.NewTransaction(nonce, c.contractAddr, big.NewInt(0), anchorGasLimit, gasPrice, input)
	signed, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(c.cfg.ChainID)), c.privateKey)
	if err != nil {
		return "", &AnchorError{Reason: ReasonNotConfigured, Err: fmt.Errorf("sign tx: %w", err)}
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		if isRevertErr(err) {
			return "", &AnchorError{Reason: ReasonTransactionReverted, Err: err}
		}
		return "", networkAnchorError(err)
	}

	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return "", networkAnchorError(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", &AnchorError{Reason: ReasonTransactionReverted, Err: errors.New("transaksi ditolak kontrak")}
	}

	return signed.Hash().Hex(), nil
}

// Verify baca verifyCertificate(hash). Fail closed.
func (c *Client) Verify(ctx context.Context, certHash string) (bool, bool) {
	if !c.configured() {
		return false, false
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	out, err := c.call(ctx, "verifyCertificate", certHash)
	if err != nil {
		log.Printf("[ERROR] verifyCertificate: %v", err)
		return false, false
	}

	vals, err := c.contractABI.Unpack("verifyCertificate", out)
	if err != nil || len(vals) != 1 {
		log.Printf("[ERROR] unpack verifyCertificate: %v", err)
		return false, false
	}
	onChain, ok := vals[0].(bool)
	return onChain && ok, true
}

// Lookup baca getCertificate(hash). Fail closed ke absent.
func (c *Client) Lookup(ctx context.Context, certHash string) (*AnchorRecord, bool) {
	if !c.configured() {
		return nil, false
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	out, err := c.call(ctx, "getCertificate", certHash)
	if err != nil {
		log.Printf("[ERROR] getCertificate: %v", err)
		return nil, false
	}

	vals, err := c.contractABI.Unpack("getCertificate", out)
	if err != nil || len(vals) != 5 {
		log.Printf("[ERROR] unpack getCertificate: %v", err)
		return nil, false
	}

	rec := &AnchorRecord{}
	rec.CertificateID, _ = vals[0].(string)
	rec.StudentName, _ = vals[1].(string)
	rec.CourseName, _ = vals[2].(string)
	rec.IssueDate, _ = vals[3].(string)
	if ts, ok := vals[4].(*big.Int); ok {
		rec.Timestamp = ts.Uint64()
	}
	if rec.CertificateID == "" {
		// kontrak balikin struct kosong untuk hash yang tidak dikenal
		return nil, false
	}
	return rec, true
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]byte, error) {
	input, err := c.contractABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	return c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.contractAddr, Data: input}, nil)
}

func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.cfg.CallTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func networkAnchorError(err error) error {
	return &AnchorError{Reason: ReasonConnectionRefused, Err: err}
}

func isRevertErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "revert") || strings.Contains(msg, "execution reverted")
}
