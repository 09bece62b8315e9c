package main

// Bus is everything the interpreter needs from the rest of the machine: the
// MMU-backed 16-bit logical address space and the 8-bit port space exposed
// by the I/O dispatcher. PendingInterrupt is polled once per Step and
// reports the dispatcher's current interrupt-vector arbitration result
// (see Dispatcher.PendingInterrupt); NMI is not
// modeled, matching the firmware this interpreter targets.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	In(port uint16) byte
	Out(port uint16, value byte)
	Tick(cycles int)
	PendingInterrupt() (vector byte, ok bool)
}

type CPUZ180 struct {
	// Hot path registers (most frequently accessed)
	A  byte
	F  byte
	B  byte
	C  byte
	D  byte
	E  byte
	H  byte
	L  byte
	A2 byte
	F2 byte
	B2 byte
	C2 byte
	D2 byte
	E2 byte
	H2 byte
	L2 byte

	IX uint16
	IY uint16
	SP uint16
	PC uint16

	I  byte
	R  byte
	IM byte
	WZ uint16

	IFF1 bool
	IFF2 bool

	Halted bool
	Cycles uint64

	iffDelay int

	bus Bus

	baseOps [256]func(*CPUZ180)
	cbOps   [256]func(*CPUZ180)
	ddOps   [256]func(*CPUZ180)
	fdOps   [256]func(*CPUZ180)
	edOps   [256]func(*CPUZ180)

	prefixMode   byte
	prefixOpcode byte

	// Register pointer array for O(1) lookup (8-bit registers)
	regs8 [8]*byte // B, C, D, E, H, L, (HL), A - index matches Z80 encoding
}

const (
	flagS  = 0x80
	flagZ  = 0x40
	flagY  = 0x20
	flagH  = 0x10
	flagX  = 0x08
	flagPV = 0x04
	flagN  = 0x02
	flagC  = 0x01
)

const (
	prefixNone byte = iota
	prefixDD
	prefixFD
)

func NewCPUZ180(bus Bus) *CPUZ180 {
	cpu := &CPUZ180{
		bus: bus,
	}
	cpu.initBaseOps()
	cpu.initCBOps()
	cpu.initDDOps()
	cpu.initFDOps()
	cpu.initEDOps()
	cpu.Reset()
	return cpu
}

func (c *CPUZ180) Reset() {
	c.A = 0
	c.F = 0
	c.B = 0
	c.C = 0
	c.D = 0
	c.E = 0
	c.H = 0
	c.L = 0
	c.A2 = 0
	c.F2 = 0
	c.B2 = 0
	c.C2 = 0
	c.D2 = 0
	c.E2 = 0
	c.H2 = 0
	c.L2 = 0
	c.IX = 0
	c.IY = 0
	c.SP = 0xFFFF
	c.PC = 0
	c.I = 0
	c.R = 0
	c.IM = 0
	c.WZ = 0
	c.prefixMode = prefixNone
	c.prefixOpcode = 0
	c.IFF1 = false
	c.IFF2 = false
	c.iffDelay = 0
	c.Halted = false
	c.Cycles = 0

	// Initialize register pointer array for O(1) lookup
	// Index matches Z80 encoding: B=0, C=1, D=2, E=3, H=4, L=5, (HL)=6 (nil), A=7
	c.regs8 = [8]*byte{&c.B, &c.C, &c.D, &c.E, &c.H, &c.L, nil, &c.A}
}

func (c *CPUZ180) AF() uint16 {
	return uint16(c.A)<<8 | uint16(c.F)
}

func (c *CPUZ180) BC() uint16 {
	return uint16(c.B)<<8 | uint16(c.C)
}

func (c *CPUZ180) DE() uint16 {
	return uint16(c.D)<<8 | uint16(c.E)
}

func (c *CPUZ180) HL() uint16 {
	return uint16(c.H)<<8 | uint16(c.L)
}

func (c *CPUZ180) AF2() uint16 {
	return uint16(c.A2)<<8 | uint16(c.F2)
}

func (c *CPUZ180) BC2() uint16 {
	return uint16(c.B2)<<8 | uint16(c.C2)
}

func (c *CPUZ180) DE2() uint16 {
	return uint16(c.D2)<<8 | uint16(c.E2)
}

func (c *CPUZ180) HL2() uint16 {
	return uint16(c.H2)<<8 | uint16(c.L2)
}

func (c *CPUZ180) SetAF(value uint16) {
	c.A = byte(value >> 8)
	c.F = byte(value)
}

func (c *CPUZ180) SetBC(value uint16) {
	c.B = byte(value >> 8)
	c.C = byte(value)
}

func (c *CPUZ180) SetDE(value uint16) {
	c.D = byte(value >> 8)
	c.E = byte(value)
}

func (c *CPUZ180) SetHL(value uint16) {
	c.H = byte(value >> 8)
	c.L = byte(value)
}

func (c *CPUZ180) SetAF2(value uint16) {
	c.A2 = byte(value >> 8)
	c.F2 = byte(value)
}

func (c *CPUZ180) SetBC2(value uint16) {
	c.B2 = byte(value >> 8)
	c.C2 = byte(value)
}

func (c *CPUZ180) SetDE2(value uint16) {
	c.D2 = byte(value >> 8)
	c.E2 = byte(value)
}

func (c *CPUZ180) SetHL2(value uint16) {
	c.H2 = byte(value >> 8)
	c.L2 = byte(value)
}

func (c *CPUZ180) Flag(mask byte) bool {
	return c.F&mask != 0
}

func (c *CPUZ180) SetFlag(mask byte, on bool) {
	if on {
		c.F |= mask
	} else {
		c.F &^= mask
	}
}

func (c *CPUZ180) ExAF() {
	c.A, c.A2 = c.A2, c.A
	c.F, c.F2 = c.F2, c.F
}

func (c *CPUZ180) Exx() {
	c.B, c.B2 = c.B2, c.B
	c.C, c.C2 = c.C2, c.C
	c.D, c.D2 = c.D2, c.D
	c.E, c.E2 = c.E2, c.E
	c.H, c.H2 = c.H2, c.H
	c.L, c.L2 = c.L2, c.L
}

// Step executes exactly one instruction's worth of progress: interrupt
// acceptance, a halted no-op tick, or a fetch-decode-execute cycle.
func (c *CPUZ180) Step() {
	if vector, ok := c.bus.PendingInterrupt(); ok && c.IFF1 {
		c.serviceIRQ(vector)
		return
	}

	if c.Halted {
		c.tick(4)
		return
	}

	opcode := c.fetchOpcode()
	c.baseOps[opcode](c)
	c.finishInstruction()
}

func (c *CPUZ180) incrementR() {
	c.R = (c.R & 0x80) | ((c.R + 1) & 0x7F)
}

func (c *CPUZ180) fetchOpcode() byte {
	opcode := c.read(c.PC)
	c.PC++
	c.incrementR()
	return opcode
}

func (c *CPUZ180) fetchByte() byte {
	value := c.read(c.PC)
	c.PC++
	return value
}

func (c *CPUZ180) read(addr uint16) byte {
	return c.bus.Read(addr)
}

func (c *CPUZ180) write(addr uint16, value byte) {
	c.bus.Write(addr, value)
}

func (c *CPUZ180) in(port uint16) byte {
	return c.bus.In(port)
}

func (c *CPUZ180) out(port uint16, value byte) {
	c.bus.Out(port, value)
}

func (c *CPUZ180) tick(cycles int) {
	c.Cycles += uint64(cycles)
	c.bus.Tick(cycles)
}

func (c *CPUZ180) finishInstruction() {
	if c.iffDelay > 0 {
		c.iffDelay--
		if c.iffDelay == 0 {
			c.IFF1 = true
			c.IFF2 = true
		}
	}
}

func (c *CPUZ180) readReg8(code byte) byte {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.readIndexHigh()
	case 5:
		return c.readIndexLow()
	case 6:
		return c.read(c.HL())
	case 7:
		return c.A
	default:
		return 0
	}
}

func (c *CPUZ180) writeReg8(code byte, value byte) {
	switch code {
	case 0:
		c.B = value
	case 1:
		c.C = value
	case 2:
		c.D = value
	case 3:
		c.E = value
	case 4:
		c.writeIndexHigh(value)
	case 5:
		c.writeIndexLow(value)
	case 6:
		c.write(c.HL(), value)
	case 7:
		c.A = value
	}
}

func (c *CPUZ180) readReg8Plain(code byte) byte {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read(c.HL())
	case 7:
		return c.A
	default:
		return 0
	}
}

func (c *CPUZ180) writeReg8Plain(code byte, value byte) {
	switch code {
	case 0:
		c.B = value
	case 1:
		c.C = value
	case 2:
		c.D = value
	case 3:
		c.E = value
	case 4:
		c.H = value
	case 5:
		c.L = value
	case 6:
		c.write(c.HL(), value)
	case 7:
		c.A = value
	}
}

func (c *CPUZ180) readIndexHigh() byte {
	switch c.prefixMode {
	case prefixDD:
		return byte(c.IX >> 8)
	case prefixFD:
		return byte(c.IY >> 8)
	default:
		return c.H
	}
}

func (c *CPUZ180) readIndexLow() byte {
	switch c.prefixMode {
	case prefixDD:
		return byte(c.IX)
	case prefixFD:
		return byte(c.IY)
	default:
		return c.L
	}
}

func (c *CPUZ180) writeIndexHigh(value byte) {
	switch c.prefixMode {
	case prefixDD:
		c.IX = (c.IX & 0x00FF) | uint16(value)<<8
	case prefixFD:
		c.IY = (c.IY & 0x00FF) | uint16(value)<<8
	default:
		c.H = value
	}
}

func (c *CPUZ180) writeIndexLow(value byte) {
	switch c.prefixMode {
	case prefixDD:
		c.IX = (c.IX & 0xFF00) | uint16(value)
	case prefixFD:
		c.IY = (c.IY & 0xFF00) | uint16(value)
	default:
		c.L = value
	}
}

func (c *CPUZ180) initBaseOps() {
	for i := range c.baseOps {
		c.baseOps[i] = (*CPUZ180).opUnimplemented
	}

	c.baseOps[0x00] = (*CPUZ180).opNOP
	c.baseOps[0x76] = (*CPUZ180).opHALT

	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		if opcode == 0x76 {
			continue
		}
		op := opcode
		dest := byte((op >> 3) & 0x07)
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ180) {
			cpu.opLDRegReg(dest, src)
		}
	}

	ldRegImmOpcodes := map[byte]byte{
		0x06: 0,
		0x0E: 1,
		0x16: 2,
		0x1E: 3,
		0x26: 4,
		0x2E: 5,
		0x36: 6,
		0x3E: 7,
	}
	for opcode, reg := range ldRegImmOpcodes {
		op := opcode
		dest := reg
		c.baseOps[op] = func(cpu *CPUZ180) {
			cpu.opLDRegImm(dest)
		}
	}

	for opcode := 0x80; opcode <= 0x87; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ180) {
			cpu.opALUReg(aluAdd, src)
		}
	}
	for opcode := 0x88; opcode <= 0x8F; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ180) {
			cpu.opALUReg(aluAdc, src)
		}
	}
	for opcode := 0x90; opcode <= 0x97; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ180) {
			cpu.opALUReg(aluSub, src)
		}
	}
	for opcode := 0x98; opcode <= 0x9F; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ180) {
			cpu.opALUReg(aluSbc, src)
		}
	}
	for opcode := 0xA0; opcode <= 0xA7; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ180) {
			cpu.opALUReg(aluAnd, src)
		}
	}
	for opcode := 0xA8; opcode <= 0xAF; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ180) {
			cpu.opALUReg(aluXor, src)
		}
	}
	for opcode := 0xB0; opcode <= 0xB7; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ180) {
			cpu.opALUReg(aluOr, src)
		}
	}
	for opcode := 0xB8; opcode <= 0xBF; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ180) {
			cpu.opALUReg(aluCp, src)
		}
	}

	c.baseOps[0xC6] = (*CPUZ180).opADDImm
	c.baseOps[0xCE] = (*CPUZ180).opADCImm
	c.baseOps[0xD6] = (*CPUZ180).opSUBImm
	c.baseOps[0xDE] = (*CPUZ180).opSBCImm
	c.baseOps[0xE6] = (*CPUZ180).opANDImm
	c.baseOps[0xEE] = (*CPUZ180).opXORImm
	c.baseOps[0xF6] = (*CPUZ180).opORImm
	c.baseOps[0xFE] = (*CPUZ180).opCPImm

	c.baseOps[0x27] = (*CPUZ180).opDAA
	c.baseOps[0x2F] = (*CPUZ180).opCPL
	c.baseOps[0x37] = (*CPUZ180).opSCF
	c.baseOps[0x3F] = (*CPUZ180).opCCF

	c.baseOps[0x01] = (*CPUZ180).opLDBCNN
	c.baseOps[0x11] = (*CPUZ180).opLDDENN
	c.baseOps[0x21] = (*CPUZ180).opLDHLImm
	c.baseOps[0x31] = (*CPUZ180).opLDSPNN
	c.baseOps[0x09] = (*CPUZ180).opADDHLBC
	c.baseOps[0x19] = (*CPUZ180).opADDHLDE
	c.baseOps[0x29] = (*CPUZ180).opADDHLHL
	c.baseOps[0x39] = (*CPUZ180).opADDHLSP
	c.baseOps[0x03] = (*CPUZ180).opINCBC
	c.baseOps[0x13] = (*CPUZ180).opINCDE
	c.baseOps[0x23] = (*CPUZ180).opINCHL
	c.baseOps[0x33] = (*CPUZ180).opINCSP
	c.baseOps[0x0B] = (*CPUZ180).opDECBC
	c.baseOps[0x1B] = (*CPUZ180).opDECDE
	c.baseOps[0x2B] = (*CPUZ180).opDECHL
	c.baseOps[0x3B] = (*CPUZ180).opDECSP
	c.baseOps[0xC5] = (*CPUZ180).opPUSHBC
	c.baseOps[0xD5] = (*CPUZ180).opPUSHDE
	c.baseOps[0xE5] = (*CPUZ180).opPUSHLH
	c.baseOps[0xF5] = (*CPUZ180).opPUSHAF
	c.baseOps[0xC1] = (*CPUZ180).opPOPBC
	c.baseOps[0xD1] = (*CPUZ180).opPOPDE
	c.baseOps[0xE1] = (*CPUZ180).opPOPHL
	c.baseOps[0xF1] = (*CPUZ180).opPOPAF
	c.baseOps[0xC3] = (*CPUZ180).opJPNN
	c.baseOps[0x18] = (*CPUZ180).opJR
	c.baseOps[0x10] = (*CPUZ180).opDJNZ
	c.baseOps[0xCD] = (*CPUZ180).opCALLNN
	c.baseOps[0xC9] = (*CPUZ180).opRET
	c.baseOps[0xE3] = (*CPUZ180).opEXSPHL
	c.baseOps[0x08] = (*CPUZ180).opEXAF
	c.baseOps[0xEB] = (*CPUZ180).opEXDEHL
	c.baseOps[0xD9] = (*CPUZ180).opEXX
	c.baseOps[0xE9] = (*CPUZ180).opJPHL
	c.baseOps[0x22] = (*CPUZ180).opLDNNHL
	c.baseOps[0x2A] = (*CPUZ180).opLDHLNN
	c.baseOps[0x32] = (*CPUZ180).opLDNNA
	c.baseOps[0x3A] = (*CPUZ180).opLDANN
	c.baseOps[0x02] = (*CPUZ180).opLDBCA
	c.baseOps[0x0A] = (*CPUZ180).opLDABC
	c.baseOps[0x12] = (*CPUZ180).opLDDEA
	c.baseOps[0x1A] = (*CPUZ180).opLDABD
	c.baseOps[0xF9] = (*CPUZ180).opLDSPHL
	c.baseOps[0xD3] = (*CPUZ180).opOUTNA
	c.baseOps[0xDB] = (*CPUZ180).opINAN
	c.baseOps[0x07] = (*CPUZ180).opRLCA
	c.baseOps[0x0F] = (*CPUZ180).opRRCA
	c.baseOps[0x17] = (*CPUZ180).opRLA
	c.baseOps[0x1F] = (*CPUZ180).opRRA
	c.baseOps[0xC7] = (*CPUZ180).opRST00
	c.baseOps[0xCF] = (*CPUZ180).opRST08
	c.baseOps[0xD7] = (*CPUZ180).opRST10
	c.baseOps[0xDF] = (*CPUZ180).opRST18
	c.baseOps[0xE7] = (*CPUZ180).opRST20
	c.baseOps[0xEF] = (*CPUZ180).opRST28
	c.baseOps[0xF7] = (*CPUZ180).opRST30
	c.baseOps[0xFF] = (*CPUZ180).opRST38
	c.baseOps[0x04] = (*CPUZ180).opINCB
	c.baseOps[0x0C] = (*CPUZ180).opINCC
	c.baseOps[0x14] = (*CPUZ180).opINCD
	c.baseOps[0x1C] = (*CPUZ180).opINCE
	c.baseOps[0x24] = (*CPUZ180).opINCH
	c.baseOps[0x2C] = (*CPUZ180).opINCL
	c.baseOps[0x34] = (*CPUZ180).opINCHLMem
	c.baseOps[0x3C] = (*CPUZ180).opINCA
	c.baseOps[0x05] = (*CPUZ180).opDECB
	c.baseOps[0x0D] = (*CPUZ180).opDECC
	c.baseOps[0x15] = (*CPUZ180).opDECD
	c.baseOps[0x1D] = (*CPUZ180).opDECE
	c.baseOps[0x25] = (*CPUZ180).opDECH
	c.baseOps[0x2D] = (*CPUZ180).opDECL
	c.baseOps[0x35] = (*CPUZ180).opDECHLMem
	c.baseOps[0x3D] = (*CPUZ180).opDECA
	c.baseOps[0xC2] = (*CPUZ180).opJPNZ
	c.baseOps[0xCA] = (*CPUZ180).opJPZ
	c.baseOps[0xD2] = (*CPUZ180).opJPNC
	c.baseOps[0xDA] = (*CPUZ180).opJPC
	c.baseOps[0xE2] = (*CPUZ180).opJPPO
	c.baseOps[0xEA] = (*CPUZ180).opJPPE
	c.baseOps[0xF2] = (*CPUZ180).opJPNS
	c.baseOps[0xFA] = (*CPUZ180).opJPS
	c.baseOps[0x20] = (*CPUZ180).opJRNZ
	c.baseOps[0x28] = (*CPUZ180).opJRZ
	c.baseOps[0x30] = (*CPUZ180).opJRNC
	c.baseOps[0x38] = (*CPUZ180).opJRC
	c.baseOps[0xC4] = (*CPUZ180).opCALLNZ
	c.baseOps[0xCC] = (*CPUZ180).opCALLZ
	c.baseOps[0xD4] = (*CPUZ180).opCALLNC
	c.baseOps[0xDC] = (*CPUZ180).opCALLC
	c.baseOps[0xE4] = (*CPUZ180).opCALLPO
	c.baseOps[0xEC] = (*CPUZ180).opCALLPE
	c.baseOps[0xF4] = (*CPUZ180).opCALLNS
	c.baseOps[0xFC] = (*CPUZ180).opCALLS
	c.baseOps[0xC0] = (*CPUZ180).opRETNZ
	c.baseOps[0xC8] = (*CPUZ180).opRETZ
	c.baseOps[0xD0] = (*CPUZ180).opRETNC
	c.baseOps[0xD8] = (*CPUZ180).opRETC
	c.baseOps[0xE0] = (*CPUZ180).opRETPO
	c.baseOps[0xE8] = (*CPUZ180).opRETPE
	c.baseOps[0xF0] = (*CPUZ180).opRETNS
	c.baseOps[0xF8] = (*CPUZ180).opRETS
	c.baseOps[0xCB] = (*CPUZ180).opCBPrefix
	c.baseOps[0xDD] = (*CPUZ180).opDDPrefix
	c.baseOps[0xFD] = (*CPUZ180).opFDPrefix
	c.baseOps[0xED] = (*CPUZ180).opEDPrefix
	c.baseOps[0xF3] = (*CPUZ180).opDI
	c.baseOps[0xFB] = (*CPUZ180).opEI
}

func (c *CPUZ180) opUnimplemented() {
	c.tick(4)
}

func (c *CPUZ180) opNOP() {
	c.tick(4)
}

func (c *CPUZ180) opHALT() {
	c.Halted = true
	c.tick(4)
}

func (c *CPUZ180) opLDRegReg(dest, src byte) {
	value := c.readReg8(src)
	c.writeReg8(dest, value)
	if dest == 6 || src == 6 {
		c.tick(7)
	} else {
		c.tick(4)
	}
}

func (c *CPUZ180) opLDRegImm(dest byte) {
	value := c.fetchByte()
	c.writeReg8(dest, value)
	if dest == 6 {
		c.tick(10)
	} else {
		c.tick(7)
	}
}

type aluOp byte

const (
	aluAdd aluOp = iota
	aluAdc
	aluSub
	aluSbc
	aluAnd
	aluXor
	aluOr
	aluCp
)

func (c *CPUZ180) opALUReg(op aluOp, src byte) {
	value := c.readReg8(src)
	c.performALU(op, value)
	if src == 6 {
		c.tick(7)
	} else {
		c.tick(4)
	}
}

func (c *CPUZ180) opADDImm() {
	value := c.fetchByte()
	c.performALU(aluAdd, value)
	c.tick(7)
}

func (c *CPUZ180) opADCImm() {
	value := c.fetchByte()
	c.performALU(aluAdc, value)
	c.tick(7)
}

func (c *CPUZ180) opSUBImm() {
	value := c.fetchByte()
	c.performALU(aluSub, value)
	c.tick(7)
}

func (c *CPUZ180) opSBCImm() {
	value := c.fetchByte()
	c.performALU(aluSbc, value)
	c.tick(7)
}

func (c *CPUZ180) opANDImm() {
	value := c.fetchByte()
	c.performALU(aluAnd, value)
	c.tick(7)
}

func (c *CPUZ180) opXORImm() {
	value := c.fetchByte()
	c.performALU(aluXor, value)
	c.tick(7)
}

func (c *CPUZ180) opORImm() {
	value := c.fetchByte()
	c.performALU(aluOr, value)
	c.tick(7)
}

func (c *CPUZ180) opCPImm() {
	value := c.fetchByte()
	c.performALU(aluCp, value)
	c.tick(7)
}

func (c *CPUZ180) opDAA() {
	a := c.A
	adj := byte(0)
	carry := c.Flag(flagC)
	if c.Flag(flagH) || (!c.Flag(flagN) && (a&0x0F) > 0x09) {
		adj |= 0x06
	}
	if carry || (!c.Flag(flagN) && a > 0x99) {
		adj |= 0x60
	}

	var res byte
	if c.Flag(flagN) {
		res = a - adj
	} else {
		res = a + adj
	}

	c.A = res
	c.F &^= flagS | flagZ | flagPV | flagH | flagC | flagX | flagY
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x80 != 0 {
		c.F |= flagS
	}
	if parity8(res) {
		c.F |= flagPV
	}
	if c.Flag(flagN) {
		if (a^res)&0x10 != 0 {
			c.F |= flagH
		}
	} else if (a&0x0F)+byte(adj&0x0F) > 0x0F {
		c.F |= flagH
	}
	if adj >= 0x60 {
		c.F |= flagC
	}
	c.F |= res & (flagX | flagY)
	c.tick(4)
}

func (c *CPUZ180) opCPL() {
	c.A = ^c.A
	c.F = (c.F & (flagS | flagZ | flagPV | flagC)) | flagH | flagN
	c.F |= c.A & (flagX | flagY)
	c.tick(4)
}

func (c *CPUZ180) opSCF() {
	c.F = (c.F & (flagS | flagZ | flagPV)) | flagC
	c.F |= c.A & (flagX | flagY)
	c.tick(4)
}

func (c *CPUZ180) opCCF() {
	carry := c.Flag(flagC)
	c.F = (c.F & (flagS | flagZ | flagPV)) | (c.A & (flagX | flagY))
	if carry {
		c.F |= flagH
	} else {
		c.F |= flagC
	}
	c.tick(4)
}

func (c *CPUZ180) opLDBCNN() {
	c.SetBC(c.fetchWord())
	c.tick(10)
}

func (c *CPUZ180) opLDDENN() {
	c.SetDE(c.fetchWord())
	c.tick(10)
}

func (c *CPUZ180) opLDHLImm() {
	c.SetHL(c.fetchWord())
	c.tick(10)
}

func (c *CPUZ180) opLDSPNN() {
	c.SP = c.fetchWord()
	c.tick(10)
}

func (c *CPUZ180) opADDHLBC() {
	c.addHL(c.BC())
	c.tick(11)
}

func (c *CPUZ180) opADDHLDE() {
	c.addHL(c.DE())
	c.tick(11)
}

func (c *CPUZ180) opADDHLHL() {
	c.addHL(c.HL())
	c.tick(11)
}

func (c *CPUZ180) opADDHLSP() {
	c.addHL(c.SP)
	c.tick(11)
}

func (c *CPUZ180) opINCBC() {
	c.SetBC(c.BC() + 1)
	c.tick(6)
}

func (c *CPUZ180) opINCDE() {
	c.SetDE(c.DE() + 1)
	c.tick(6)
}

func (c *CPUZ180) opINCHL() {
	c.SetHL(c.HL() + 1)
	c.tick(6)
}

func (c *CPUZ180) opINCSP() {
	c.SP++
	c.tick(6)
}

func (c *CPUZ180) opDECBC() {
	c.SetBC(c.BC() - 1)
	c.tick(6)
}

func (c *CPUZ180) opDECDE() {
	c.SetDE(c.DE() - 1)
	c.tick(6)
}

func (c *CPUZ180) opDECHL() {
	c.SetHL(c.HL() - 1)
	c.tick(6)
}

func (c *CPUZ180) opDECSP() {
	c.SP--
	c.tick(6)
}

func (c *CPUZ180) opPUSHBC() {
	c.pushWord(c.BC())
	c.tick(11)
}

func (c *CPUZ180) opPUSHDE() {
	c.pushWord(c.DE())
	c.tick(11)
}

func (c *CPUZ180) opPUSHLH() {
	c.pushWord(c.HL())
	c.tick(11)
}

func (c *CPUZ180) opPUSHAF() {
	c.pushWord(c.AF())
	c.tick(11)
}

func (c *CPUZ180) opPOPBC() {
	c.SetBC(c.popWord())
	c.tick(10)
}

func (c *CPUZ180) opPOPDE() {
	c.SetDE(c.popWord())
	c.tick(10)
}

func (c *CPUZ180) opPOPHL() {
	c.SetHL(c.popWord())
	c.tick(10)
}

func (c *CPUZ180) opPOPAF() {
	c.SetAF(c.popWord())
	c.tick(10)
}

func (c *CPUZ180) opJPNN() {
	c.PC = c.fetchWord()
	c.tick(10)
}

func (c *CPUZ180) opJR() {
	disp := int8(c.fetchByte())
	c.PC = uint16(int32(c.PC) + int32(disp))
	c.tick(12)
}

func (c *CPUZ180) opDJNZ() {
	disp := int8(c.fetchByte())
	c.B--
	if c.B != 0 {
		c.PC = uint16(int32(c.PC) + int32(disp))
		c.tick(13)
	} else {
		c.tick(8)
	}
}

func (c *CPUZ180) opCALLNN() {
	addr := c.fetchWord()
	c.pushWord(c.PC)
	c.PC = addr
	c.tick(17)
}

func (c *CPUZ180) opRET() {
	c.PC = c.popWord()
	c.tick(10)
}

func (c *CPUZ180) opEXSPHL() {
	low := c.read(c.SP)
	high := c.read(c.SP + 1)
	memVal := uint16(high)<<8 | uint16(low)
	hl := c.HL()
	c.write(c.SP, byte(hl))
	c.write(c.SP+1, byte(hl>>8))
	c.SetHL(memVal)
	c.WZ = memVal
	c.tick(19)
}

func (c *CPUZ180) opEXAF() {
	c.ExAF()
	c.tick(4)
}

func (c *CPUZ180) opEXDEHL() {
	c.D, c.H = c.H, c.D
	c.E, c.L = c.L, c.E
	c.tick(4)
}

func (c *CPUZ180) opEXX() {
	c.Exx()
	c.tick(4)
}

func (c *CPUZ180) opJPHL() {
	c.PC = c.HL()
	c.WZ = c.PC
	c.tick(4)
}

func (c *CPUZ180) opLDNNHL() {
	addr := c.fetchWord()
	value := c.HL()
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
	c.WZ = addr + 1
	c.tick(16)
}

func (c *CPUZ180) opLDHLNN() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.SetHL(uint16(high)<<8 | uint16(low))
	c.WZ = addr + 1
	c.tick(16)
}

func (c *CPUZ180) opLDNNA() {
	addr := c.fetchWord()
	c.write(addr, c.A)
	c.WZ = addr
	c.tick(13)
}

func (c *CPUZ180) opLDANN() {
	addr := c.fetchWord()
	c.A = c.read(addr)
	c.WZ = addr
	c.tick(13)
}

func (c *CPUZ180) opLDBCA() {
	c.write(c.BC(), c.A)
	c.tick(7)
}

func (c *CPUZ180) opLDABC() {
	c.A = c.read(c.BC())
	c.tick(7)
}

func (c *CPUZ180) opLDDEA() {
	c.write(c.DE(), c.A)
	c.tick(7)
}

func (c *CPUZ180) opLDABD() {
	c.A = c.read(c.DE())
	c.tick(7)
}

func (c *CPUZ180) opLDSPHL() {
	c.SP = c.HL()
	c.tick(6)
}

func (c *CPUZ180) opOUTNA() {
	port := uint16(c.A)<<8 | uint16(c.fetchByte())
	c.out(port, c.A)
	c.tick(11)
}

func (c *CPUZ180) opINAN() {
	port := uint16(c.A)<<8 | uint16(c.fetchByte())
	c.A = c.in(port)
	c.updateInFlags(c.A)
	c.tick(11)
}

func (c *CPUZ180) opRLCA() {
	carry := c.A&0x80 != 0
	c.A = c.A<<1 | c.A>>7
	c.updateRotateFlags(carry)
	c.tick(4)
}

func (c *CPUZ180) opRRCA() {
	carry := c.A&0x01 != 0
	c.A = c.A>>1 | c.A<<7
	c.updateRotateFlags(carry)
	c.tick(4)
}

func (c *CPUZ180) opRLA() {
	carryIn := c.Flag(flagC)
	carryOut := c.A&0x80 != 0
	c.A = c.A << 1
	if carryIn {
		c.A |= 0x01
	}
	c.updateRotateFlags(carryOut)
	c.tick(4)
}

func (c *CPUZ180) opRRA() {
	carryIn := c.Flag(flagC)
	carryOut := c.A&0x01 != 0
	c.A = c.A >> 1
	if carryIn {
		c.A |= 0x80
	}
	c.updateRotateFlags(carryOut)
	c.tick(4)
}

func (c *CPUZ180) opRST00() {
	c.opRST(0x00)
}

func (c *CPUZ180) opRST08() {
	c.opRST(0x08)
}

func (c *CPUZ180) opRST10() {
	c.opRST(0x10)
}

func (c *CPUZ180) opRST18() {
	c.opRST(0x18)
}

func (c *CPUZ180) opRST20() {
	c.opRST(0x20)
}

func (c *CPUZ180) opRST28() {
	c.opRST(0x28)
}

func (c *CPUZ180) opRST30() {
	c.opRST(0x30)
}

func (c *CPUZ180) opRST38() {
	c.opRST(0x38)
}

func (c *CPUZ180) opRST(vector uint16) {
	c.pushWord(c.PC)
	c.PC = vector
	c.tick(11)
}

func (c *CPUZ180) opCBPrefix() {
	opcode := c.fetchOpcode()
	c.cbOps[opcode](c)
}

func (c *CPUZ180) opDDPrefix() {
	opcode := c.fetchOpcode()
	prev := c.prefixMode
	c.prefixMode = prefixDD
	c.prefixOpcode = opcode
	c.ddOps[opcode](c)
	c.prefixMode = prev
}

func (c *CPUZ180) opFDPrefix() {
	opcode := c.fetchOpcode()
	prev := c.prefixMode
	c.prefixMode = prefixFD
	c.prefixOpcode = opcode
	c.fdOps[opcode](c)
	c.prefixMode = prev
}

func (c *CPUZ180) opEDPrefix() {
	opcode := c.fetchOpcode()
	c.edOps[opcode](c)
}

// serviceIRQ accepts the vector reported by the dispatcher's interrupt
// arbitration. IM 0 is a pragmatic approximation (PC=0x0038) since the
// firmware this interpreter targets never programs IM 0.
func (c *CPUZ180) serviceIRQ(vector byte) {
	c.Halted = false
	c.incrementR()
	c.IFF1 = false
	c.IFF2 = false
	switch c.IM {
	case 2:
		tableAddr := uint16(c.I)<<8 | uint16(vector)
		low := c.read(tableAddr)
		high := c.read(tableAddr + 1)
		c.pushWord(c.PC)
		c.PC = uint16(high)<<8 | uint16(low)
		c.WZ = tableAddr + 1
	default:
		c.pushWord(c.PC)
		c.PC = 0x0038
		c.WZ = c.PC
	}
	c.tick(12)
}

func (c *CPUZ180) opINCB() {
	c.B = c.inc8(c.B)
	c.tick(4)
}

func (c *CPUZ180) opINCC() {
	c.C = c.inc8(c.C)
	c.tick(4)
}

func (c *CPUZ180) opINCD() {
	c.D = c.inc8(c.D)
	c.tick(4)
}

func (c *CPUZ180) opINCE() {
	c.E = c.inc8(c.E)
	c.tick(4)
}

func (c *CPUZ180) opINCH() {
	c.writeReg8(4, c.inc8(c.readReg8(4)))
	c.tick(4)
}

func (c *CPUZ180) opINCL() {
	c.writeReg8(5, c.inc8(c.readReg8(5)))
	c.tick(4)
}

func (c *CPUZ180) opINCHLMem() {
	addr := c.HL()
	value := c.read(addr)
	value = c.inc8(value)
	c.write(addr, value)
	c.tick(11)
}

func (c *CPUZ180) opINCA() {
	c.A = c.inc8(c.A)
	c.tick(4)
}

func (c *CPUZ180) opDECB() {
	c.B = c.dec8(c.B)
	c.tick(4)
}

func (c *CPUZ180) opDECC() {
	c.C = c.dec8(c.C)
	c.tick(4)
}

func (c *CPUZ180) opDECD() {
	c.D = c.dec8(c.D)
	c.tick(4)
}

func (c *CPUZ180) opDECE() {
	c.E = c.dec8(c.E)
	c.tick(4)
}

func (c *CPUZ180) opDECH() {
	c.writeReg8(4, c.dec8(c.readReg8(4)))
	c.tick(4)
}

func (c *CPUZ180) opDECL() {
	c.writeReg8(5, c.dec8(c.readReg8(5)))
	c.tick(4)
}

func (c *CPUZ180) opDECHLMem() {
	addr := c.HL()
	value := c.read(addr)
	value = c.dec8(value)
	c.write(addr, value)
	c.tick(11)
}

func (c *CPUZ180) opDECA() {
	c.A = c.dec8(c.A)
	c.tick(4)
}

func (c *CPUZ180) opDI() {
	c.IFF1 = false
	c.IFF2 = false
	c.iffDelay = 0
	c.tick(4)
}

func (c *CPUZ180) opEI() {
	c.iffDelay = 2
	c.tick(4)
}

func (c *CPUZ180) opJPNZ() {
	c.jpCond(!c.Flag(flagZ))
}

func (c *CPUZ180) opJPZ() {
	c.jpCond(c.Flag(flagZ))
}

func (c *CPUZ180) opJPNC() {
	c.jpCond(!c.Flag(flagC))
}

func (c *CPUZ180) opJPC() {
	c.jpCond(c.Flag(flagC))
}

func (c *CPUZ180) opJPPO() {
	c.jpCond(!c.Flag(flagPV))
}

func (c *CPUZ180) opJPPE() {
	c.jpCond(c.Flag(flagPV))
}

func (c *CPUZ180) opJPNS() {
	c.jpCond(!c.Flag(flagS))
}

func (c *CPUZ180) opJPS() {
	c.jpCond(c.Flag(flagS))
}

func (c *CPUZ180) opJRNZ() {
	c.jrCond(!c.Flag(flagZ))
}

func (c *CPUZ180) opJRZ() {
	c.jrCond(c.Flag(flagZ))
}

func (c *CPUZ180) opJRNC() {
	c.jrCond(!c.Flag(flagC))
}

func (c *CPUZ180) opJRC() {
	c.jrCond(c.Flag(flagC))
}

func (c *CPUZ180) opCALLNZ() {
	c.callCond(!c.Flag(flagZ))
}

func (c *CPUZ180) opCALLZ() {
	c.callCond(c.Flag(flagZ))
}

func (c *CPUZ180) opCALLNC() {
	c.callCond(!c.Flag(flagC))
}

func (c *CPUZ180) opCALLC() {
	c.callCond(c.Flag(flagC))
}

func (c *CPUZ180) opCALLPO() {
	c.callCond(!c.Flag(flagPV))
}

func (c *CPUZ180) opCALLPE() {
	c.callCond(c.Flag(flagPV))
}

func (c *CPUZ180) opCALLNS() {
	c.callCond(!c.Flag(flagS))
}

func (c *CPUZ180) opCALLS() {
	c.callCond(c.Flag(flagS))
}

func (c *CPUZ180) opRETNZ() {
	c.retCond(!c.Flag(flagZ))
}

func (c *CPUZ180) opRETZ() {
	c.retCond(c.Flag(flagZ))
}

func (c *CPUZ180) opRETNC() {
	c.retCond(!c.Flag(flagC))
}

func (c *CPUZ180) opRETC() {
	c.retCond(c.Flag(flagC))
}

func (c *CPUZ180) opRETPO() {
	c.retCond(!c.Flag(flagPV))
}

func (c *CPUZ180) opRETPE() {
	c.retCond(c.Flag(flagPV))
}

func (c *CPUZ180) opRETNS() {
	c.retCond(!c.Flag(flagS))
}

func (c *CPUZ180) opRETS() {
	c.retCond(c.Flag(flagS))
}

func (c *CPUZ180) addHL(value uint16) {
	hl := c.HL()
	sum := uint32(hl) + uint32(value)

	c.F &^= flagH | flagN | flagC | flagX | flagY
	if ((hl&0x0FFF)+(value&0x0FFF))&0x1000 != 0 {
		c.F |= flagH
	}
	if sum > 0xFFFF {
		c.F |= flagC
	}
	result := uint16(sum)
	c.SetHL(result)
	c.F |= byte((result >> 8) & 0x28)
}

func (c *CPUZ180) addIX(value uint16) {
	sum := uint32(c.IX) + uint32(value)
	c.F &^= flagH | flagN | flagC | flagX | flagY
	if ((c.IX&0x0FFF)+(value&0x0FFF))&0x1000 != 0 {
		c.F |= flagH
	}
	if sum > 0xFFFF {
		c.F |= flagC
	}
	c.IX = uint16(sum)
	c.F |= byte((c.IX >> 8) & 0x28)
}

func (c *CPUZ180) addIY(value uint16) {
	sum := uint32(c.IY) + uint32(value)
	c.F &^= flagH | flagN | flagC | flagX | flagY
	if ((c.IY&0x0FFF)+(value&0x0FFF))&0x1000 != 0 {
		c.F |= flagH
	}
	if sum > 0xFFFF {
		c.F |= flagC
	}
	c.IY = uint16(sum)
	c.F |= byte((c.IY >> 8) & 0x28)
}

func (c *CPUZ180) adcHL(value uint16) {
	hl := c.HL()
	carry := uint16(0)
	if c.Flag(flagC) {
		carry = 1
	}
	sum := uint32(hl) + uint32(value) + uint32(carry)
	res := uint16(sum)

	c.F = 0
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x8000 != 0 {
		c.F |= flagS
	}
	if ((hl&0x0FFF)+(value&0x0FFF)+carry)&0x1000 != 0 {
		c.F |= flagH
	}
	if ((^(hl ^ value))&(hl^res))&0x8000 != 0 {
		c.F |= flagPV
	}
	if sum > 0xFFFF {
		c.F |= flagC
	}
	c.F |= byte((res >> 8) & 0x28)
	c.SetHL(res)
}

func (c *CPUZ180) sbcHL(value uint16) {
	hl := c.HL()
	carry := uint16(0)
	if c.Flag(flagC) {
		carry = 1
	}
	diff := int32(hl) - int32(value) - int32(carry)
	res := uint16(diff)

	c.F = flagN
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x8000 != 0 {
		c.F |= flagS
	}
	if int32(hl&0x0FFF)-int32(value&0x0FFF)-int32(carry) < 0 {
		c.F |= flagH
	}
	if ((hl ^ value) & (hl ^ res) & 0x8000) != 0 {
		c.F |= flagPV
	}
	if diff < 0 {
		c.F |= flagC
	}
	c.F |= byte((res >> 8) & 0x28)
	c.SetHL(res)
}

func (c *CPUZ180) inc8(value byte) byte {
	res := value + 1
	c.F = (c.F & flagC)
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x80 != 0 {
		c.F |= flagS
	}
	if (value&0x0F)+1 > 0x0F {
		c.F |= flagH
	}
	if value == 0x7F {
		c.F |= flagPV
	}
	c.F |= res & (flagX | flagY)
	return res
}

func (c *CPUZ180) dec8(value byte) byte {
	res := value - 1
	c.F = (c.F & flagC) | flagN
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x80 != 0 {
		c.F |= flagS
	}
	if value&0x0F == 0 {
		c.F |= flagH
	}
	if value == 0x80 {
		c.F |= flagPV
	}
	c.F |= res & (flagX | flagY)
	return res
}

func (c *CPUZ180) updateInFlags(value byte) {
	carry := c.F & flagC
	c.F = carry
	c.setSZPFlags(value)
}

func (c *CPUZ180) updateAParityFlagsPreserveCarry() {
	carry := c.F & flagC
	value := c.A
	c.F = carry
	if value == 0 {
		c.F |= flagZ
	}
	if value&0x80 != 0 {
		c.F |= flagS
	}
	if parity8(value) {
		c.F |= flagPV
	}
	c.F |= value & (flagX | flagY)
}

func (c *CPUZ180) updateLDAIRFlags() {
	carry := c.F & flagC
	value := c.A
	c.F = carry
	if value == 0 {
		c.F |= flagZ
	}
	if value&0x80 != 0 {
		c.F |= flagS
	}
	if c.IFF2 {
		c.F |= flagPV
	}
	c.F |= value & (flagX | flagY)
}

func (c *CPUZ180) updateLDIFlags(value byte, bc uint16) {
	sum := c.A + value
	c.F = c.F & (flagS | flagZ | flagC)
	if bc != 0 {
		c.F |= flagPV
	}
	c.F |= sum & (flagX | flagY)
}

func (c *CPUZ180) updateBlockIOFlags() {
	keep := c.F & (flagS | flagH | flagPV | flagC | flagX | flagY)
	c.F = keep | flagN
	if c.B == 0 {
		c.F |= flagZ
	}
}

func (c *CPUZ180) updateRotateFlags(carry bool) {
	f := c.F & (flagS | flagZ | flagPV)
	if carry {
		f |= flagC
	}
	f |= c.A & (flagX | flagY)
	c.F = f
}

func (c *CPUZ180) rotate8Left(value byte, carryIn bool) (byte, bool) {
	newCarry := value&0x80 != 0
	res := value << 1
	if carryIn {
		res |= 0x01
	}
	return res, newCarry
}

func (c *CPUZ180) rotate8Right(value byte, carryIn bool) (byte, bool) {
	newCarry := value&0x01 != 0
	res := value >> 1
	if carryIn {
		res |= 0x80
	}
	return res, newCarry
}

func (c *CPUZ180) shiftLeftArithmetic(value byte) (byte, bool) {
	newCarry := value&0x80 != 0
	res := value << 1
	return res, newCarry
}

func (c *CPUZ180) shiftRightArithmetic(value byte) (byte, bool) {
	newCarry := value&0x01 != 0
	res := (value >> 1) | (value & 0x80)
	return res, newCarry
}

func (c *CPUZ180) shiftRightLogical(value byte) (byte, bool) {
	newCarry := value&0x01 != 0
	res := value >> 1
	return res, newCarry
}

func (c *CPUZ180) setSZPFlags(value byte) {
	c.F &^= flagS | flagZ | flagPV | flagX | flagY
	if value == 0 {
		c.F |= flagZ
	}
	if value&0x80 != 0 {
		c.F |= flagS
	}
	if parity8(value) {
		c.F |= flagPV
	}
	c.F |= value & (flagX | flagY)
}

func (c *CPUZ180) initCBOps() {
	for i := range c.cbOps {
		c.cbOps[i] = (*CPUZ180).opUnimplemented
	}

	for opcode := 0x00; opcode <= 0x3F; opcode++ {
		op := byte(opcode)
		group := op >> 3
		reg := op & 0x07
		c.cbOps[op] = func(cpu *CPUZ180) {
			cpu.opCBRotateShift(group, reg)
		}
	}

	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		op := byte(opcode)
		bit := (op >> 3) & 0x07
		reg := op & 0x07
		c.cbOps[op] = func(cpu *CPUZ180) {
			cpu.opCBBIT(bit, reg)
		}
	}

	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		op := byte(opcode)
		bit := (op >> 3) & 0x07
		reg := op & 0x07
		c.cbOps[op] = func(cpu *CPUZ180) {
			cpu.opCBRES(bit, reg)
		}
	}

	for opcode := 0xC0; opcode <= 0xFF; opcode++ {
		op := byte(opcode)
		bit := (op >> 3) & 0x07
		reg := op & 0x07
		c.cbOps[op] = func(cpu *CPUZ180) {
			cpu.opCBSET(bit, reg)
		}
	}
}

func (c *CPUZ180) initDDOps() {
	for i := range c.ddOps {
		c.ddOps[i] = (*CPUZ180).opDDUnimplemented
	}
	c.ddOps[0x21] = (*CPUZ180).opLDIXNN
	c.ddOps[0x22] = (*CPUZ180).opLDNNIX
	c.ddOps[0x2A] = (*CPUZ180).opLDIXNNMem
	c.ddOps[0xE5] = (*CPUZ180).opPUSHIX
	c.ddOps[0xE1] = (*CPUZ180).opPOPIX
	c.ddOps[0xF9] = (*CPUZ180).opLDSPX
	c.ddOps[0x36] = (*CPUZ180).opLDIXdN
	c.ddOps[0x34] = (*CPUZ180).opINCIXd
	c.ddOps[0x35] = (*CPUZ180).opDECIXd
	c.ddOps[0xE9] = (*CPUZ180).opJPIX
	c.ddOps[0xCB] = (*CPUZ180).opDDCBPrefix
	c.ddOps[0xE3] = (*CPUZ180).opEXSPIX
	c.ddOps[0x09] = (*CPUZ180).opADDIXBC
	c.ddOps[0x19] = (*CPUZ180).opADDIXDE
	c.ddOps[0x29] = (*CPUZ180).opADDIXIX
	c.ddOps[0x39] = (*CPUZ180).opADDIXSP
	c.ddOps[0x23] = (*CPUZ180).opINCIX
	c.ddOps[0x2B] = (*CPUZ180).opDECIX

	for opcode := byte(0x46); opcode <= 0x7E; opcode += 0x08 {
		if opcode == 0x76 {
			continue
		}
		op := opcode
		dest := byte((op >> 3) & 0x07)
		c.ddOps[op] = func(cpu *CPUZ180) {
			cpu.opLDRegIXd(dest)
		}
	}
	for opcode := byte(0x70); opcode <= 0x77; opcode++ {
		if opcode == 0x76 {
			continue
		}
		op := opcode
		src := byte(op & 0x07)
		c.ddOps[op] = func(cpu *CPUZ180) {
			cpu.opLDIXdReg(src)
		}
	}
	for opcode := byte(0x86); opcode <= 0xBE; opcode += 0x08 {
		op := opcode
		alu := aluOp((op >> 3) & 0x07)
		c.ddOps[op] = func(cpu *CPUZ180) {
			cpu.opALUIXd(alu)
		}
	}
}

func (c *CPUZ180) initFDOps() {
	for i := range c.fdOps {
		c.fdOps[i] = (*CPUZ180).opFDUnimplemented
	}
	c.fdOps[0x21] = (*CPUZ180).opLDIYNN
	c.fdOps[0x22] = (*CPUZ180).opLDNNIY
	c.fdOps[0x2A] = (*CPUZ180).opLDIYNNMem
	c.fdOps[0xE5] = (*CPUZ180).opPUSHIY
	c.fdOps[0xE1] = (*CPUZ180).opPOPIY
	c.fdOps[0xF9] = (*CPUZ180).opLDSPY
	c.fdOps[0x36] = (*CPUZ180).opLDIYdN
	c.fdOps[0x34] = (*CPUZ180).opINCIYd
	c.fdOps[0x35] = (*CPUZ180).opDECIYd
	c.fdOps[0xE9] = (*CPUZ180).opJPIY
	c.fdOps[0xCB] = (*CPUZ180).opFDCBPrefix
	c.fdOps[0xE3] = (*CPUZ180).opEXSPIY
	c.fdOps[0x09] = (*CPUZ180).opADDIYBC
	c.fdOps[0x19] = (*CPUZ180).opADDIYDE
	c.fdOps[0x29] = (*CPUZ180).opADDIYIY
	c.fdOps[0x39] = (*CPUZ180).opADDIYSP
	c.fdOps[0x23] = (*CPUZ180).opINCIY
	c.fdOps[0x2B] = (*CPUZ180).opDECIY

	for opcode := byte(0x46); opcode <= 0x7E; opcode += 0x08 {
		if opcode == 0x76 {
			continue
		}
		op := opcode
		dest := byte((op >> 3) & 0x07)
		c.fdOps[op] = func(cpu *CPUZ180) {
			cpu.opLDRegIYd(dest)
		}
	}
	for opcode := byte(0x70); opcode <= 0x77; opcode++ {
		if opcode == 0x76 {
			continue
		}
		op := opcode
		src := byte(op & 0x07)
		c.fdOps[op] = func(cpu *CPUZ180) {
			cpu.opLDIYdReg(src)
		}
	}
	for opcode := byte(0x86); opcode <= 0xBE; opcode += 0x08 {
		op := opcode
		alu := aluOp((op >> 3) & 0x07)
		c.fdOps[op] = func(cpu *CPUZ180) {
			cpu.opALUIYd(alu)
		}
	}
}

func (c *CPUZ180) initEDOps() {
	for i := range c.edOps {
		c.edOps[i] = (*CPUZ180).opEDUnimplemented
	}

	c.edOps[0x40] = (*CPUZ180).opINBC
	c.edOps[0x48] = (*CPUZ180).opINRC
	c.edOps[0x50] = (*CPUZ180).opINDC
	c.edOps[0x58] = (*CPUZ180).opINEC
	c.edOps[0x60] = (*CPUZ180).opINHC
	c.edOps[0x68] = (*CPUZ180).opINLC
	c.edOps[0x70] = (*CPUZ180).opINCM
	c.edOps[0x78] = (*CPUZ180).opINAC

	c.edOps[0x41] = (*CPUZ180).opOUTBC
	c.edOps[0x49] = (*CPUZ180).opOUTCC
	c.edOps[0x51] = (*CPUZ180).opOUTDC
	c.edOps[0x59] = (*CPUZ180).opOUTEC
	c.edOps[0x61] = (*CPUZ180).opOUTHC
	c.edOps[0x69] = (*CPUZ180).opOUTLC
	c.edOps[0x71] = (*CPUZ180).opOUTC0
	c.edOps[0x79] = (*CPUZ180).opOUTAC

	c.edOps[0x44] = (*CPUZ180).opNEG
	c.edOps[0x4C] = (*CPUZ180).opNEG
	c.edOps[0x54] = (*CPUZ180).opNEG
	c.edOps[0x5C] = (*CPUZ180).opNEG
	c.edOps[0x64] = (*CPUZ180).opNEG
	c.edOps[0x6C] = (*CPUZ180).opNEG
	c.edOps[0x74] = (*CPUZ180).opNEG
	c.edOps[0x7C] = (*CPUZ180).opNEG

	c.edOps[0x47] = (*CPUZ180).opLDIA
	c.edOps[0x4F] = (*CPUZ180).opLDRA
	c.edOps[0x57] = (*CPUZ180).opLDAI
	c.edOps[0x5F] = (*CPUZ180).opLDAR

	c.edOps[0x46] = (*CPUZ180).opIM0
	c.edOps[0x56] = (*CPUZ180).opIM1
	c.edOps[0x5E] = (*CPUZ180).opIM2
	c.edOps[0x66] = (*CPUZ180).opIM0
	c.edOps[0x6E] = (*CPUZ180).opIM0
	c.edOps[0x76] = (*CPUZ180).opIM1
	c.edOps[0x7E] = (*CPUZ180).opIM2

	c.edOps[0x45] = (*CPUZ180).opRETN
	c.edOps[0x4D] = (*CPUZ180).opRETI
	c.edOps[0x55] = (*CPUZ180).opRETN
	c.edOps[0x5D] = (*CPUZ180).opRETN
	c.edOps[0x65] = (*CPUZ180).opRETN
	c.edOps[0x6D] = (*CPUZ180).opRETN
	c.edOps[0x75] = (*CPUZ180).opRETN
	c.edOps[0x7D] = (*CPUZ180).opRETN

	c.edOps[0x67] = (*CPUZ180).opRRD
	c.edOps[0x6F] = (*CPUZ180).opRLD

	c.edOps[0xA0] = (*CPUZ180).opLDI
	c.edOps[0xB0] = (*CPUZ180).opLDIR
	c.edOps[0xA8] = (*CPUZ180).opLDD
	c.edOps[0xB8] = (*CPUZ180).opLDDR
	c.edOps[0xA1] = (*CPUZ180).opCPI
	c.edOps[0xB1] = (*CPUZ180).opCPIR
	c.edOps[0xA9] = (*CPUZ180).opCPD
	c.edOps[0xB9] = (*CPUZ180).opCPDR
	c.edOps[0xA2] = (*CPUZ180).opINI
	c.edOps[0xB2] = (*CPUZ180).opINIR
	c.edOps[0xAA] = (*CPUZ180).opIND
	c.edOps[0xBA] = (*CPUZ180).opINDR
	c.edOps[0xA3] = (*CPUZ180).opOUTI
	c.edOps[0xB3] = (*CPUZ180).opOTIR
	c.edOps[0xAB] = (*CPUZ180).opOUTD
	c.edOps[0xBB] = (*CPUZ180).opOTDR

	c.edOps[0x43] = (*CPUZ180).opLDNNBC
	c.edOps[0x4B] = (*CPUZ180).opLDBCNNED
	c.edOps[0x53] = (*CPUZ180).opLDNNDE
	c.edOps[0x5B] = (*CPUZ180).opLDDENNED
	c.edOps[0x63] = (*CPUZ180).opLDNNHLed
	c.edOps[0x6B] = (*CPUZ180).opLDHLNNed
	c.edOps[0x73] = (*CPUZ180).opLDNNSP
	c.edOps[0x7B] = (*CPUZ180).opLDSPNNED

	c.edOps[0x4A] = (*CPUZ180).opADCHLBC
	c.edOps[0x5A] = (*CPUZ180).opADCHLDE
	c.edOps[0x6A] = (*CPUZ180).opADCHLHL
	c.edOps[0x7A] = (*CPUZ180).opADCHLSP
	c.edOps[0x42] = (*CPUZ180).opSBCHLBC
	c.edOps[0x52] = (*CPUZ180).opSBCHLDE
	c.edOps[0x62] = (*CPUZ180).opSBCHLHL
	c.edOps[0x72] = (*CPUZ180).opSBCHLSP

	// Z180 extensions.
	c.edOps[0x4C] = (*CPUZ180).opMLTBC
	c.edOps[0x5C] = (*CPUZ180).opMLTDE
	c.edOps[0x6C] = (*CPUZ180).opMLTHL
	c.edOps[0x7C] = (*CPUZ180).opMLTSP

	c.edOps[0x64] = (*CPUZ180).opTSTImm
	for opcode := byte(0x04); opcode <= 0x3C; opcode += 8 {
		op := opcode
		src := (op >> 3) & 0x07
		c.edOps[op] = func(cpu *CPUZ180) {
			cpu.opTSTReg(src)
		}
	}

	in0Regs := map[byte]byte{0x00: 0, 0x08: 1, 0x10: 2, 0x18: 3, 0x20: 4, 0x28: 5, 0x30: 6, 0x38: 7}
	for opcode, dest := range in0Regs {
		op, d := opcode, dest
		c.edOps[op] = func(cpu *CPUZ180) {
			cpu.opIN0(d)
		}
	}
	out0Regs := map[byte]byte{0x01: 0, 0x09: 1, 0x11: 2, 0x19: 3, 0x21: 4, 0x29: 5, 0x31: 6, 0x39: 7}
	for opcode, src := range out0Regs {
		op, s := opcode, src
		c.edOps[op] = func(cpu *CPUZ180) {
			cpu.opOUT0(s)
		}
	}

	c.edOps[0x83] = (*CPUZ180).opOTIM
	c.edOps[0x8B] = (*CPUZ180).opOTDM
	c.edOps[0x93] = (*CPUZ180).opOTIMR
	c.edOps[0x9B] = (*CPUZ180).opOTDMR
}

// mlt multiplies the two halves of a register pair (unsigned) and stores
// the 16-bit product back into the pair.
func (c *CPUZ180) mlt(high, low byte) uint16 {
	return uint16(high) * uint16(low)
}

func (c *CPUZ180) opMLTBC() {
	c.SetBC(c.mlt(c.B, c.C))
	c.tick(17)
}

func (c *CPUZ180) opMLTDE() {
	c.SetDE(c.mlt(c.D, c.E))
	c.tick(17)
}

func (c *CPUZ180) opMLTHL() {
	c.SetHL(c.mlt(c.H, c.L))
	c.tick(17)
}

func (c *CPUZ180) opMLTSP() {
	c.SP = c.mlt(byte(c.SP>>8), byte(c.SP))
	c.tick(17)
}

// tst computes A AND operand and sets flags only, leaving A untouched.
func (c *CPUZ180) tst(operand byte) {
	res := c.A & operand
	c.F = flagH
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x80 != 0 {
		c.F |= flagS
	}
	if parity8(res) {
		c.F |= flagPV
	}
	c.F |= res & (flagX | flagY)
}

func (c *CPUZ180) opTSTReg(reg byte) {
	c.tst(c.readReg8Plain(reg))
	if reg == 6 {
		c.tick(12)
	} else {
		c.tick(7)
	}
}

func (c *CPUZ180) opTSTImm() {
	c.tst(c.fetchByte())
	c.tick(9)
}

// z180Reg8 maps an IN0/OUT0 register code to its backing byte; code 6
// addresses no architectural register on real Z180 hardware (the slot is
// reserved) so it is treated as a discard target here.
func (c *CPUZ180) z180Reg8(code byte) *byte {
	switch code {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	default:
		return nil
	}
}

func (c *CPUZ180) opIN0(dest byte) {
	port := uint16(c.fetchByte())
	value := c.in(port)
	if r := c.z180Reg8(dest); r != nil {
		*r = value
	}
	c.updateInFlags(value)
	c.tick(12)
}

func (c *CPUZ180) opOUT0(src byte) {
	port := uint16(c.fetchByte())
	var value byte
	if r := c.z180Reg8(src); r != nil {
		value = *r
	}
	c.out(port, value)
	c.tick(13)
}

// otim/otdm transfer one byte from (HL) to the port held in C, with HL
// and B updated per the Z180 block-I/O family; the "R" variants repeat
// while B is non-zero.
func (c *CPUZ180) opOTIM() {
	value := c.read(c.HL())
	c.out(c.BC(), value)
	c.SetHL(c.HL() + 1)
	c.B--
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPUZ180) opOTIMR() {
	c.opOTIM()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ180) opOTDM() {
	value := c.read(c.HL())
	c.out(c.BC(), value)
	c.SetHL(c.HL() - 1)
	c.B--
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPUZ180) opOTDMR() {
	c.opOTDM()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ180) opEDUnimplemented() {
	c.tick(8)
}

func (c *CPUZ180) opDDUnimplemented() {
	c.tick(4)
	c.baseOps[c.prefixOpcode](c)
}

func (c *CPUZ180) opFDUnimplemented() {
	c.tick(4)
	c.baseOps[c.prefixOpcode](c)
}

func (c *CPUZ180) opLDIXNN() {
	c.IX = c.fetchWord()
	c.tick(14)
}

func (c *CPUZ180) opLDNNIX() {
	addr := c.fetchWord()
	c.write(addr, byte(c.IX))
	c.write(addr+1, byte(c.IX>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opLDIXNNMem() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.IX = uint16(high)<<8 | uint16(low)
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opPUSHIX() {
	c.pushWord(c.IX)
	c.tick(15)
}

func (c *CPUZ180) opPOPIX() {
	c.IX = c.popWord()
	c.tick(14)
}

func (c *CPUZ180) opLDSPX() {
	c.SP = c.IX
	c.tick(10)
}

func (c *CPUZ180) opLDIXdN() {
	disp := int8(c.fetchByte())
	value := c.fetchByte()
	addr := uint16(int32(c.IX) + int32(disp))
	c.write(addr, value)
	c.tick(19)
}

func (c *CPUZ180) opINCIXd() {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IX) + int32(disp))
	value := c.read(addr)
	value = c.inc8(value)
	c.write(addr, value)
	c.tick(23)
}

func (c *CPUZ180) opDECIXd() {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IX) + int32(disp))
	value := c.read(addr)
	value = c.dec8(value)
	c.write(addr, value)
	c.tick(23)
}

func (c *CPUZ180) opJPIX() {
	c.PC = c.IX
	c.WZ = c.PC
	c.tick(8)
}

func (c *CPUZ180) opEXSPIX() {
	low := c.read(c.SP)
	high := c.read(c.SP + 1)
	memVal := uint16(high)<<8 | uint16(low)
	c.write(c.SP, byte(c.IX))
	c.write(c.SP+1, byte(c.IX>>8))
	c.IX = memVal
	c.WZ = memVal
	c.tick(23)
}

func (c *CPUZ180) opADDIXBC() {
	c.addIX(c.BC())
	c.tick(15)
}

func (c *CPUZ180) opADDIXDE() {
	c.addIX(c.DE())
	c.tick(15)
}

func (c *CPUZ180) opADDIXIX() {
	c.addIX(c.IX)
	c.tick(15)
}

func (c *CPUZ180) opADDIXSP() {
	c.addIX(c.SP)
	c.tick(15)
}

func (c *CPUZ180) opINCIX() {
	c.IX++
	c.tick(10)
}

func (c *CPUZ180) opDECIX() {
	c.IX--
	c.tick(10)
}

func (c *CPUZ180) opLDIYNN() {
	c.IY = c.fetchWord()
	c.tick(14)
}

func (c *CPUZ180) opLDNNIY() {
	addr := c.fetchWord()
	c.write(addr, byte(c.IY))
	c.write(addr+1, byte(c.IY>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opLDIYNNMem() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.IY = uint16(high)<<8 | uint16(low)
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opPUSHIY() {
	c.pushWord(c.IY)
	c.tick(15)
}

func (c *CPUZ180) opPOPIY() {
	c.IY = c.popWord()
	c.tick(14)
}

func (c *CPUZ180) opLDSPY() {
	c.SP = c.IY
	c.tick(10)
}

func (c *CPUZ180) opLDIYdN() {
	disp := int8(c.fetchByte())
	value := c.fetchByte()
	addr := uint16(int32(c.IY) + int32(disp))
	c.write(addr, value)
	c.tick(19)
}

func (c *CPUZ180) opINCIYd() {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IY) + int32(disp))
	value := c.read(addr)
	value = c.inc8(value)
	c.write(addr, value)
	c.tick(23)
}

func (c *CPUZ180) opDECIYd() {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IY) + int32(disp))
	value := c.read(addr)
	value = c.dec8(value)
	c.write(addr, value)
	c.tick(23)
}

func (c *CPUZ180) opJPIY() {
	c.PC = c.IY
	c.WZ = c.PC
	c.tick(8)
}

func (c *CPUZ180) opEXSPIY() {
	low := c.read(c.SP)
	high := c.read(c.SP + 1)
	memVal := uint16(high)<<8 | uint16(low)
	c.write(c.SP, byte(c.IY))
	c.write(c.SP+1, byte(c.IY>>8))
	c.IY = memVal
	c.WZ = memVal
	c.tick(23)
}

func (c *CPUZ180) opADDIYBC() {
	c.addIY(c.BC())
	c.tick(15)
}

func (c *CPUZ180) opADDIYDE() {
	c.addIY(c.DE())
	c.tick(15)
}

func (c *CPUZ180) opADDIYIY() {
	c.addIY(c.IY)
	c.tick(15)
}

func (c *CPUZ180) opADDIYSP() {
	c.addIY(c.SP)
	c.tick(15)
}

func (c *CPUZ180) opINCIY() {
	c.IY++
	c.tick(10)
}

func (c *CPUZ180) opDECIY() {
	c.IY--
	c.tick(10)
}

func (c *CPUZ180) opLDRegIXd(dest byte) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IX) + int32(disp))
	c.writeReg8Plain(dest, c.read(addr))
	c.tick(19)
}

func (c *CPUZ180) opLDIXdReg(src byte) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IX) + int32(disp))
	c.write(addr, c.readReg8Plain(src))
	c.tick(19)
}

func (c *CPUZ180) opALUIXd(op aluOp) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IX) + int32(disp))
	c.performALU(op, c.read(addr))
	c.tick(19)
}

func (c *CPUZ180) opLDRegIYd(dest byte) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IY) + int32(disp))
	c.writeReg8Plain(dest, c.read(addr))
	c.tick(19)
}

func (c *CPUZ180) opLDIYdReg(src byte) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IY) + int32(disp))
	c.write(addr, c.readReg8Plain(src))
	c.tick(19)
}

func (c *CPUZ180) opALUIYd(op aluOp) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IY) + int32(disp))
	c.performALU(op, c.read(addr))
	c.tick(19)
}

func (c *CPUZ180) inRegC(dest *byte) {
	value := c.in(c.BC())
	*dest = value
	c.updateInFlags(value)
	c.tick(12)
}

func (c *CPUZ180) outRegC(value byte) {
	c.out(c.BC(), value)
	c.tick(12)
}

func (c *CPUZ180) opINBC() {
	c.inRegC(&c.B)
}

func (c *CPUZ180) opINRC() {
	c.inRegC(&c.C)
}

func (c *CPUZ180) opINDC() {
	c.inRegC(&c.D)
}

func (c *CPUZ180) opINEC() {
	c.inRegC(&c.E)
}

func (c *CPUZ180) opINHC() {
	c.inRegC(&c.H)
}

func (c *CPUZ180) opINLC() {
	c.inRegC(&c.L)
}

func (c *CPUZ180) opINAC() {
	c.inRegC(&c.A)
}

func (c *CPUZ180) opINCM() {
	value := c.in(c.BC())
	c.updateInFlags(value)
	c.tick(12)
}

func (c *CPUZ180) opOUTBC() {
	c.outRegC(c.B)
}

func (c *CPUZ180) opOUTCC() {
	c.outRegC(c.C)
}

func (c *CPUZ180) opOUTDC() {
	c.outRegC(c.D)
}

func (c *CPUZ180) opOUTEC() {
	c.outRegC(c.E)
}

func (c *CPUZ180) opOUTHC() {
	c.outRegC(c.H)
}

func (c *CPUZ180) opOUTLC() {
	c.outRegC(c.L)
}

func (c *CPUZ180) opOUTAC() {
	c.outRegC(c.A)
}

func (c *CPUZ180) opOUTC0() {
	c.outRegC(0x00)
}

func (c *CPUZ180) opNEG() {
	a := c.A
	res := byte(0 - int(a))
	c.A = res
	c.F = flagN
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x80 != 0 {
		c.F |= flagS
	}
	if a&0x0F != 0 {
		c.F |= flagH
	}
	if a == 0x80 {
		c.F |= flagPV
	}
	if a != 0 {
		c.F |= flagC
	}
	c.F |= res & (flagX | flagY)
	c.tick(8)
}

func (c *CPUZ180) opLDIA() {
	c.I = c.A
	c.tick(9)
}

func (c *CPUZ180) opLDRA() {
	c.R = c.A
	c.tick(9)
}

func (c *CPUZ180) opLDAI() {
	c.A = c.I
	c.updateLDAIRFlags()
	c.tick(9)
}

func (c *CPUZ180) opLDAR() {
	c.A = c.R
	c.updateLDAIRFlags()
	c.tick(9)
}

func (c *CPUZ180) opIM0() {
	c.IM = 0
	c.tick(8)
}

func (c *CPUZ180) opIM1() {
	c.IM = 1
	c.tick(8)
}

func (c *CPUZ180) opIM2() {
	c.IM = 2
	c.tick(8)
}

func (c *CPUZ180) opRETN() {
	c.PC = c.popWord()
	c.IFF1 = c.IFF2
	c.tick(14)
}

func (c *CPUZ180) opRETI() {
	c.PC = c.popWord()
	c.IFF1 = c.IFF2
	c.tick(14)
}

func (c *CPUZ180) opRRD() {
	addr := c.HL()
	value := c.read(addr)
	c.write(addr, (value>>4)|(c.A<<4))
	c.A = (c.A & 0xF0) | (value & 0x0F)
	c.updateAParityFlagsPreserveCarry()
	c.tick(18)
}

func (c *CPUZ180) opRLD() {
	addr := c.HL()
	value := c.read(addr)
	c.write(addr, (value<<4)|(c.A&0x0F))
	c.A = (c.A & 0xF0) | (value >> 4)
	c.updateAParityFlagsPreserveCarry()
	c.tick(18)
}

func (c *CPUZ180) opLDI() {
	value := c.read(c.HL())
	c.write(c.DE(), value)
	c.SetHL(c.HL() + 1)
	c.SetDE(c.DE() + 1)
	bc := c.BC() - 1
	c.SetBC(bc)
	c.updateLDIFlags(value, bc)
	c.tick(16)
}

func (c *CPUZ180) opLDIR() {
	startBC := c.BC()
	c.opLDI()
	if startBC != 0 && c.BC() != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ180) opLDD() {
	value := c.read(c.HL())
	c.write(c.DE(), value)
	c.SetHL(c.HL() - 1)
	c.SetDE(c.DE() - 1)
	bc := c.BC() - 1
	c.SetBC(bc)
	c.updateLDIFlags(value, bc)
	c.tick(16)
}

func (c *CPUZ180) opLDDR() {
	startBC := c.BC()
	c.opLDD()
	if startBC != 0 && c.BC() != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ180) opCPI() {
	value := c.read(c.HL())
	c.SetHL(c.HL() + 1)
	bc := c.BC() - 1
	c.SetBC(bc)
	c.subA(value, 0, false)
	if bc != 0 {
		c.F |= flagPV
	} else {
		c.F &^= flagPV
	}
	c.tick(16)
}

func (c *CPUZ180) opCPIR() {
	startBC := c.BC()
	c.opCPI()
	if startBC != 0 && c.BC() != 0 && !c.Flag(flagZ) {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ180) opCPD() {
	value := c.read(c.HL())
	c.SetHL(c.HL() - 1)
	bc := c.BC() - 1
	c.SetBC(bc)
	c.subA(value, 0, false)
	if bc != 0 {
		c.F |= flagPV
	} else {
		c.F &^= flagPV
	}
	c.tick(16)
}

func (c *CPUZ180) opCPDR() {
	startBC := c.BC()
	c.opCPD()
	if startBC != 0 && c.BC() != 0 && !c.Flag(flagZ) {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ180) opINI() {
	port := c.BC()
	value := c.in(port)
	c.write(c.HL(), value)
	c.B--
	c.SetHL(c.HL() + 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPUZ180) opINIR() {
	c.opINI()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ180) opIND() {
	port := c.BC()
	value := c.in(port)
	c.write(c.HL(), value)
	c.B--
	c.SetHL(c.HL() - 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPUZ180) opINDR() {
	c.opIND()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ180) opOUTI() {
	value := c.read(c.HL())
	c.B--
	c.out(c.BC(), value)
	c.SetHL(c.HL() + 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPUZ180) opOTIR() {
	c.opOUTI()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ180) opOUTD() {
	value := c.read(c.HL())
	c.B--
	c.out(c.BC(), value)
	c.SetHL(c.HL() - 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPUZ180) opOTDR() {
	c.opOUTD()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ180) opLDNNBC() {
	addr := c.fetchWord()
	value := c.BC()
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opLDBCNNED() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.SetBC(uint16(high)<<8 | uint16(low))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opLDNNDE() {
	addr := c.fetchWord()
	value := c.DE()
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opLDDENNED() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.SetDE(uint16(high)<<8 | uint16(low))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opLDNNHLed() {
	addr := c.fetchWord()
	value := c.HL()
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opLDHLNNed() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.SetHL(uint16(high)<<8 | uint16(low))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opLDNNSP() {
	addr := c.fetchWord()
	c.write(addr, byte(c.SP))
	c.write(addr+1, byte(c.SP>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opLDSPNNED() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.SP = uint16(high)<<8 | uint16(low)
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ180) opADCHLBC() {
	c.adcHL(c.BC())
	c.tick(15)
}

func (c *CPUZ180) opADCHLDE() {
	c.adcHL(c.DE())
	c.tick(15)
}

func (c *CPUZ180) opADCHLHL() {
	c.adcHL(c.HL())
	c.tick(15)
}

func (c *CPUZ180) opADCHLSP() {
	c.adcHL(c.SP)
	c.tick(15)
}

func (c *CPUZ180) opSBCHLBC() {
	c.sbcHL(c.BC())
	c.tick(15)
}

func (c *CPUZ180) opSBCHLDE() {
	c.sbcHL(c.DE())
	c.tick(15)
}

func (c *CPUZ180) opSBCHLHL() {
	c.sbcHL(c.HL())
	c.tick(15)
}

func (c *CPUZ180) opSBCHLSP() {
	c.sbcHL(c.SP)
	c.tick(15)
}

func (c *CPUZ180) opDDCBPrefix() {
	disp := int8(c.fetchByte())
	opcode := c.fetchOpcode()
	addr := uint16(int32(c.IX) + int32(disp))
	c.cbOpsIndexed(addr, opcode, disp)
}

func (c *CPUZ180) opFDCBPrefix() {
	disp := int8(c.fetchByte())
	opcode := c.fetchOpcode()
	addr := uint16(int32(c.IY) + int32(disp))
	c.cbOpsIndexed(addr, opcode, disp)
}

func (c *CPUZ180) cbOpsIndexed(addr uint16, opcode byte, disp int8) {
	group := opcode >> 6
	switch group {
	case 0:
		c.cbIndexedRotateShift(addr, opcode)
	case 1:
		c.cbIndexedBIT(addr, opcode)
	case 2:
		c.cbIndexedRES(addr, opcode)
	case 3:
		c.cbIndexedSET(addr, opcode)
	}
}

func (c *CPUZ180) cbIndexedRotateShift(addr uint16, opcode byte) {
	value := c.read(addr)
	reg := opcode & 0x07
	group := (opcode >> 3) & 0x07
	var res byte
	var carry bool

	switch group {
	case 0: // RLC
		carry = value&0x80 != 0
		res = value<<1 | value>>7
	case 1: // RRC
		carry = value&0x01 != 0
		res = value>>1 | value<<7
	case 2: // RL
		res, carry = c.rotate8Left(value, c.Flag(flagC))
	case 3: // RR
		res, carry = c.rotate8Right(value, c.Flag(flagC))
	case 4: // SLA
		res, carry = c.shiftLeftArithmetic(value)
	case 5: // SRA
		res, carry = c.shiftRightArithmetic(value)
	case 6: // SLL (undocumented: shifts a 1 into bit 0)
		res, carry = c.shiftLeftArithmetic(value)
		res |= 0x01
	case 7: // SRL
		res, carry = c.shiftRightLogical(value)
	}

	c.F &^= flagN | flagH | flagC
	if carry {
		c.F |= flagC
	}
	c.setSZPFlags(res)

	c.write(addr, res)
	if reg != 6 {
		c.writeReg8Plain(reg, res)
	}
	c.tick(23)
}

func (c *CPUZ180) cbIndexedBIT(addr uint16, opcode byte) {
	value := c.read(addr)
	bit := (opcode >> 3) & 0x07
	mask := byte(1 << bit)
	c.F &^= flagN | flagZ | flagS | flagPV | flagX | flagY
	c.F |= flagH
	if value&mask == 0 {
		c.F |= flagZ | flagPV
	}
	if bit == 7 && value&mask != 0 {
		c.F |= flagS
	}
	c.F |= value & (flagX | flagY)
	c.tick(20)
}

func (c *CPUZ180) cbIndexedRES(addr uint16, opcode byte) {
	bit := (opcode >> 3) & 0x07
	res := c.read(addr) &^ (1 << bit)
	c.write(addr, res)
	reg := opcode & 0x07
	if reg != 6 {
		c.writeReg8Plain(reg, res)
	}
	c.tick(23)
}

func (c *CPUZ180) cbIndexedSET(addr uint16, opcode byte) {
	bit := (opcode >> 3) & 0x07
	res := c.read(addr) | (1 << bit)
	c.write(addr, res)
	reg := opcode & 0x07
	if reg != 6 {
		c.writeReg8Plain(reg, res)
	}
	c.tick(23)
}

func (c *CPUZ180) opCBRotateShift(group, reg byte) {
	value := c.readReg8(reg)
	var res byte
	var carry bool
	switch group {
	case 0: // RLC
		carry = value&0x80 != 0
		res = value<<1 | value>>7
	case 1: // RRC
		carry = value&0x01 != 0
		res = value>>1 | value<<7
	case 2: // RL
		res, carry = c.rotate8Left(value, c.Flag(flagC))
	case 3: // RR
		res, carry = c.rotate8Right(value, c.Flag(flagC))
	case 4: // SLA
		res, carry = c.shiftLeftArithmetic(value)
	case 5: // SRA
		res, carry = c.shiftRightArithmetic(value)
	case 6: // SLL (undocumented: shifts a 1 into bit 0)
		res, carry = c.shiftLeftArithmetic(value)
		res |= 0x01
	case 7: // SRL
		res, carry = c.shiftRightLogical(value)
	}

	c.writeReg8(reg, res)
	c.F &^= flagN | flagH | flagC
	if carry {
		c.F |= flagC
	}
	c.setSZPFlags(res)

	if reg == 6 {
		c.tick(15)
	} else {
		c.tick(8)
	}
}

func (c *CPUZ180) opCBBIT(bit, reg byte) {
	value := c.readReg8(reg)
	mask := byte(1 << bit)
	c.F &^= flagN | flagZ | flagS | flagPV | flagX | flagY
	c.F |= flagH
	if value&mask == 0 {
		c.F |= flagZ | flagPV
	}
	if bit == 7 && value&mask != 0 {
		c.F |= flagS
	}
	if reg == 6 {
		c.F |= (byte(value) & (flagX | flagY))
		c.tick(12)
	} else {
		c.F |= byte(value) & (flagX | flagY)
		c.tick(8)
	}
}

func (c *CPUZ180) opCBRES(bit, reg byte) {
	value := c.readReg8(reg)
	res := value &^ (1 << bit)
	c.writeReg8(reg, res)
	if reg == 6 {
		c.tick(15)
	} else {
		c.tick(8)
	}
}

func (c *CPUZ180) opCBSET(bit, reg byte) {
	value := c.readReg8(reg)
	res := value | (1 << bit)
	c.writeReg8(reg, res)
	if reg == 6 {
		c.tick(15)
	} else {
		c.tick(8)
	}
}

func (c *CPUZ180) jpCond(cond bool) {
	addr := c.fetchWord()
	if cond {
		c.PC = addr
	}
	c.tick(10)
}

func (c *CPUZ180) jrCond(cond bool) {
	disp := int8(c.fetchByte())
	if cond {
		c.PC = uint16(int32(c.PC) + int32(disp))
		c.tick(12)
	} else {
		c.tick(7)
	}
}

func (c *CPUZ180) callCond(cond bool) {
	addr := c.fetchWord()
	if cond {
		c.pushWord(c.PC)
		c.PC = addr
		c.tick(17)
	} else {
		c.tick(10)
	}
}

func (c *CPUZ180) retCond(cond bool) {
	if cond {
		c.PC = c.popWord()
		c.tick(11)
	} else {
		c.tick(5)
	}
}

func (c *CPUZ180) fetchWord() uint16 {
	low := c.fetchByte()
	high := c.fetchByte()
	return uint16(high)<<8 | uint16(low)
}

func (c *CPUZ180) pushWord(value uint16) {
	c.SP--
	c.write(c.SP, byte(value>>8))
	c.SP--
	c.write(c.SP, byte(value))
}

func (c *CPUZ180) popWord() uint16 {
	low := c.read(c.SP)
	c.SP++
	high := c.read(c.SP)
	c.SP++
	return uint16(high)<<8 | uint16(low)
}

func (c *CPUZ180) performALU(op aluOp, value byte) {
	switch op {
	case aluAdd:
		c.addA(value, 0)
	case aluAdc:
		carry := byte(0)
		if c.Flag(flagC) {
			carry = 1
		}
		c.addA(value, carry)
	case aluSub:
		c.subA(value, 0, true)
	case aluSbc:
		carry := byte(0)
		if c.Flag(flagC) {
			carry = 1
		}
		c.subA(value, carry, true)
	case aluAnd:
		c.andA(value)
	case aluXor:
		c.xorA(value)
	case aluOr:
		c.orA(value)
	case aluCp:
		c.subA(value, 0, false)
	}
}

func (c *CPUZ180) addA(value byte, carry byte) {
	a := c.A
	sum := uint16(a) + uint16(value) + uint16(carry)
	res := byte(sum)

	c.A = res
	c.F = 0
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x80 != 0 {
		c.F |= flagS
	}
	if ((a&0x0F)+(value&0x0F)+carry)&0x10 != 0 {
		c.F |= flagH
	}
	if ((^(a ^ value))&(a^res))&0x80 != 0 {
		c.F |= flagPV
	}
	if sum > 0xFF {
		c.F |= flagC
	}
	c.F |= res & (flagX | flagY)
}

func (c *CPUZ180) subA(value byte, carry byte, store bool) {
	a := c.A
	diff := int(a) - int(value) - int(carry)
	res := byte(diff)

	if store {
		c.A = res
	}

	c.F = flagN
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x80 != 0 {
		c.F |= flagS
	}
	if int(a&0x0F)-int(value&0x0F)-int(carry) < 0 {
		c.F |= flagH
	}
	if ((a ^ value) & (a ^ res) & 0x80) != 0 {
		c.F |= flagPV
	}
	if diff < 0 {
		c.F |= flagC
	}
	c.F |= res & (flagX | flagY)
}

func (c *CPUZ180) andA(value byte) {
	res := c.A & value
	c.A = res
	c.F = flagH
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x80 != 0 {
		c.F |= flagS
	}
	if parity8(res) {
		c.F |= flagPV
	}
	c.F |= res & (flagX | flagY)
}

func (c *CPUZ180) xorA(value byte) {
	res := c.A ^ value
	c.A = res
	c.F = 0
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x80 != 0 {
		c.F |= flagS
	}
	if parity8(res) {
		c.F |= flagPV
	}
	c.F |= res & (flagX | flagY)
}

func (c *CPUZ180) orA(value byte) {
	res := c.A | value
	c.A = res
	c.F = 0
	if res == 0 {
		c.F |= flagZ
	}
	if res&0x80 != 0 {
		c.F |= flagS
	}
	if parity8(res) {
		c.F |= flagPV
	}
	c.F |= res & (flagX | flagY)
}

func parity8(value byte) bool {
	value ^= value >> 4
	value ^= value >> 2
	value ^= value >> 1
	return value&1 == 0
}
