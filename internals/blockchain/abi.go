package blockchain

import (
	"encoding/json"
	"log"
	"os"
)

// ABI kontrak CertificateRegistry. Dipakai kalau contract_info.json hasil
// deploy tidak ditemukan — deskriptor hasil deploy selalu menang supaya
// client tidak drift dari kontrak yang terpasang.
const fallbackContractABI = `[
  {
    "inputs": [
      {"internalType": "string", "name": "_certificateId", "type": "string"},
      {"internalType": "string", "name": "_hash", "type": "string"},
      {"internalType": "string", "name": "_studentName", "type": "string"},
      {"internalType": "string", "name": "_courseName", "type": "string"},
      {"internalType": "string", "name": "_issueDate", "type": "string"}
    ],
    "name": "issueCertificate",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "string", "name": "_hash", "type": "string"}
    ],
    "name": "verifyCertificate",
    "outputs": [
      {"internalType": "bool", "name": "", "type": "bool"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "string", "name": "_hash", "type": "string"}
    ],
    "name": "getCertificate",
    "outputs": [
      {"internalType": "string", "name": "certificateId", "type": "string"},
      {"internalType": "string", "name": "studentName", "type": "string"},
      {"internalType": "string", "name": "courseName", "type": "string"},
      {"internalType": "string", "name": "issueDate", "type": "string"},
      {"internalType": "uint256", "name": "timestamp", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "string", "name": "certificateId", "type": "string"},
      {"indexed": true, "internalType": "string", "name": "hash", "type": "string"},
      {"indexed": false, "internalType": "string", "name": "studentName", "type": "string"}
    ],
    "name": "CertificateIssued",
    "type": "event"
  }
]`

const defaultContractInfoPath = "contracts/contract_info.json"

type contractInfo struct {
	Address string          `json:"address"`
	ABI     json.RawMessage `json:"abi"`
}

// loadContractInfo baca deskriptor kontrak hasil deploy (abi + address).
// Kalau file tidak ada / rusak → fallback ke ABI bawaan tanpa address.
func loadContractInfo(path string) (abiJSON string, address string) {
	if path == "" {
		path = defaultContractInfoPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Gagal baca contract info %s: %v", path, err)
		}
		return fallbackContractABI, ""
	}

	var info contractInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		log.Printf("⚠️ contract info %s tidak valid: %v", path, err)
		return fallbackContractABI, ""
	}
	if len(info.ABI) == 0 {
		return fallbackContractABI, info.Address
	}
	return string(info.ABI), info.Address
}
