package lib

const NMIVector uint16 = 0xfffa
const ResetVector uint16 = 0xfffc
const IRQVector uint16 = 0xfffe

type InterruptKind int

const (
    InterruptKindNMI InterruptKind = iota
    InterruptKindIRQ
    InterruptKindBRK
)

func (kind InterruptKind) String() string {
    switch kind {
        case InterruptKindNMI: return "nmi"
        case InterruptKindIRQ: return "irq"
        case InterruptKindBRK: return "brk"
    }
    return "unknown interrupt"
}

type Interrupt struct {
    Kind InterruptKind
    Vector uint16
    /* whether the status byte pushed on the stack has the B flag set */
    BreakFlag bool
    /* cpu cycles consumed by the acknowledge sequence */
    Cycles int
}

/* http://wiki.nesdev.com/w/index.php/CPU_interrupts
 * nmi and irq take 7 cycles. brk also takes 7 but those are already
 * accounted for by the brk opcode's table entry.
 */
var InterruptNMI = Interrupt{
    Kind: InterruptKindNMI,
    Vector: NMIVector,
    BreakFlag: false,
    Cycles: 7,
}

var InterruptIRQ = Interrupt{
    Kind: InterruptKindIRQ,
    Vector: IRQVector,
    BreakFlag: false,
    Cycles: 7,
}

var InterruptBRK = Interrupt{
    Kind: InterruptKindBRK,
    Vector: IRQVector,
    BreakFlag: true,
    Cycles: 0,
}

func (interrupt Interrupt) Maskable() bool {
    return interrupt.Kind != InterruptKindNMI
}
